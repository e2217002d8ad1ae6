package sanitize

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Text nettoie une saisie libre avant affichage ou stockage : espaces
// tronqués, chevrons supprimés, longueur plafonnée à 1000 caractères.
func Text(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.NewReplacer("<", "", ">", "").Replace(cleaned)
	if len(cleaned) > 1000 {
		cleaned = cleaned[:1000]
	}
	return cleaned
}

// Email normalise un email et renvoie une chaîne vide s'il est invalide.
func Email(email string) string {
	cleaned := strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(cleaned) {
		return ""
	}
	return cleaned
}

// LooksLikeScript détecte les saisies contenant des fragments de balisage
// exécutable. Utilisé pour journaliser les tentatives d'injection.
func LooksLikeScript(input string) bool {
	lowered := strings.ToLower(input)
	for _, marker := range []string{"<script", "javascript:", "onerror=", "onload="} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// Number borne une valeur numérique dans [min, max].
func Number(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
