package validators

import "regexp"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func IsSlug(s string) bool {
	return len(s) >= 3 && len(s) <= 100 && slugPattern.MatchString(s)
}
