package repositories

// RPCResult est le contrat des fonctions SQL d'emprunt, de retour et
// d'import : un drapeau de succès et, en cas d'échec applicatif, la raison
// fournie par le serveur. Une erreur de transport est renvoyée séparément
// par l'appel pgx lui-même.
type RPCResult struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Inserted int    `json:"inserted,omitempty"`
}
