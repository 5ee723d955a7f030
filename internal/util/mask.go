package util

import "strings"

func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	i := strings.IndexByte(s, '@')
	if i <= 0 {
		return maskName(s)
	}
	user, dom := s[:i], s[i+1:]
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	dparts := strings.Split(dom, ".")
	if len(dparts) > 0 && len(dparts[0]) > 1 {
		dparts[0] = dparts[0][:1] + "…"
	}
	return user + "@" + strings.Join(dparts, ".")
}

// MaskAccount enmascara un nombre de cuenta para logs y auditoría.
// Acepta "DOMINIO\usuario" (el dominio queda visible), UPN "usuario@dominio"
// y nombres sueltos: "CORP\jdoe" -> "CORP\j…e".
func MaskAccount(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\\'); i >= 0 {
		return s[:i+1] + maskName(strings.ToLower(s[i+1:]))
	}
	if strings.IndexByte(s, '@') > 0 {
		return MaskEmail(s)
	}
	return maskName(strings.ToLower(s))
}

func maskName(s string) string {
	r := []rune(s)
	switch {
	case len(r) == 0:
		return ""
	case len(r) <= 3:
		return "***"
	}
	return string(r[:1]) + "…" + string(r[len(r)-1:])
}
