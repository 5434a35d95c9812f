package contact

import (
	"encoding/csv"
	"io"
	"strings"
)

// ParseCSV reads a header-mapped CSV of contacts. Column names are matched
// case-insensitively; name and email are required per row. Rows missing either
// are skipped and counted.
func ParseCSV(r io.Reader) ([]NewContact, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(rec []string, names ...string) string {
		for _, n := range names {
			if i, ok := idx[n]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
		}
		return ""
	}

	var out []NewContact
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		nc := NewContact{
			Name:            field(rec, "name"),
			Email:           field(rec, "email"),
			Phone:           field(rec, "phone"),
			Title:           field(rec, "title"),
			Company:         field(rec, "company"),
			Website:         field(rec, "website"),
			LinkedInURL:     field(rec, "linkedin", "linkedin_url"),
			Twitter:         field(rec, "twitter"),
			Facebook:        field(rec, "facebook"),
			Country:         field(rec, "country"),
			State:           field(rec, "state"),
			City:            field(rec, "city"),
			PastInvestments: field(rec, "past_investments", "past investments"),
			Types:           field(rec, "types"),
			Stages:          field(rec, "stages"),
			Notes:           field(rec, "notes"),
		}
		if m := field(rec, "markets"); m != "" {
			nc.Markets = splitMarkets(m)
		}

		if nc.Name == "" || nc.Email == "" {
			skipped++
			continue
		}
		out = append(out, nc)
	}

	return out, skipped, nil
}

func splitMarkets(s string) []string {
	sep := ";"
	if !strings.Contains(s, ";") {
		sep = ","
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
