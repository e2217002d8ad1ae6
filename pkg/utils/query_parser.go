package utils

import (
	"net/url"
	"strings"
)

// SearchQuery porte la recherche libre et les critères avancés extraits de
// l'URL : `search=corde` et `filter[manufacturer]=Petzl`. Dès qu'un critère
// avancé est défini, il prime sur la recherche libre.
type SearchQuery struct {
	Search   string
	Criteria map[string]string
}

func ParseSearchFromQuery(values url.Values) SearchQuery {
	query := SearchQuery{
		Criteria: make(map[string]string),
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			query.Search = vals[0]
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			query.Criteria[field] = vals[0]
		}
	}

	return query
}
