package localauth

// Package localauth provides the static fallback credential table used when
// the remote identity provider is unavailable or unconfigured.

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hrbrew/hrbrew-api/config"
	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
)

// nsLocalUser namespaces deterministic UUIDs derived from short local ids,
// so local accounts keep stable identifiers across both backend paths.
var nsLocalUser = uuid.MustParse("8b6f8f4e-1f5d-4a7a-9a6e-3f2b1c0d9e8a")

// StableID maps a local credential id to a deterministic UUID. Ids that are
// already UUIDs pass through unchanged.
func StableID(id string) string {
	if _, err := uuid.Parse(id); err == nil {
		return id
	}
	return uuid.NewSHA1(nsLocalUser, []byte(id)).String()
}

// Source implements ports.CredentialSource over a fixed credential table.
// The table is immutable after construction.
type Source struct {
	records    []domainauth.Credential
	identifier config.IdentifierField
}

// NewSource constructs a Source from the given records. When records is
// empty the built-in demo table is used.
func NewSource(records []domainauth.Credential, identifier config.IdentifierField) *Source {
	if len(records) == 0 {
		records = demoTable()
	}
	if identifier == "" {
		identifier = config.IdentifierEmail
	}
	return &Source{records: append([]domainauth.Credential(nil), records...), identifier: identifier}
}

// Authenticate matches identifier and secret against the table. Matching is
// exact and case-sensitive on both fields.
func (s *Source) Authenticate(identifier, secret string) (domainauth.UserProfile, bool) {
	for _, rec := range s.records {
		field := rec.Email
		if s.identifier == config.IdentifierUsername {
			field = rec.Username
		}
		if field == identifier && rec.Password == secret {
			p := rec.Profile()
			p.ID = StableID(p.ID)
			return p, true
		}
	}
	return domainauth.UserProfile{}, false
}

// Profiles returns the table entries as password-stripped profiles with
// stable UUID identifiers.
func (s *Source) Profiles() []domainauth.UserProfile {
	out := make([]domainauth.UserProfile, 0, len(s.records))
	for _, rec := range s.records {
		p := rec.Profile()
		p.ID = StableID(p.ID)
		out = append(out, p)
	}
	return out
}

// ParseRecords parses HRBREW_LOCAL_USERS entries. Each raw entry is a
// comma-separated record: id,username,email,password,admin,fullName,department.
// Trailing fields may be omitted.
func ParseRecords(raw []string) ([]domainauth.Credential, error) {
	const minFields = 4
	records := make([]domainauth.Credential, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ",")
		if len(parts) < minFields {
			return nil, fmt.Errorf("local user entry needs at least %d fields, got %d", minFields, len(parts))
		}
		rec := domainauth.Credential{
			ID:       strings.TrimSpace(parts[0]),
			Username: strings.TrimSpace(parts[1]),
			Email:    strings.TrimSpace(parts[2]),
			Password: parts[3],
		}
		if len(parts) > 4 {
			rec.IsAdmin = strings.EqualFold(strings.TrimSpace(parts[4]), "true")
		}
		if len(parts) > 5 {
			rec.FullName = strings.TrimSpace(parts[5])
		}
		if len(parts) > 6 {
			rec.Department = strings.TrimSpace(parts[6])
		}
		if rec.ID == "" || rec.Username == "" {
			return nil, fmt.Errorf("local user entry missing id or username: %q", entry)
		}
		records = append(records, rec)
	}
	return records, nil
}

// demoTable is the built-in development fallback table.
func demoTable() []domainauth.Credential {
	return []domainauth.Credential{
		{
			ID:         "1",
			Username:   "admin",
			Email:      "admin@hrbrew.local",
			Password:   "admin123",
			IsAdmin:    true,
			FullName:   "Portal Admin",
			Department: "Information Systems",
		},
		{
			ID:         "2",
			Username:   "rivka",
			Email:      "rivka@hrbrew.local",
			Password:   "user123",
			FullName:   "Rivka Levi",
			Department: "Human Resources",
		},
		{
			ID:         "3",
			Username:   "dana",
			Email:      "dana@hrbrew.local",
			Password:   "user123",
			FullName:   "Dana Mizrahi",
			Department: "Public Inquiries",
		},
	}
}
