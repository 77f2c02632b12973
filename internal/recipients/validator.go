// Package recipients cross-checks a task's raw recipient list against the
// personnel directory before anything is mailed out.
package recipients

import (
	"fmt"

	"github.com/staffeye/internal/store"
)

// Validate filters rawList down to addresses that belong to a known, active,
// administrative employee. Every discarded address gets a reason so the run
// log shows why nobody received a report.
func Validate(rawList []string, directory store.Directory) (valid []string, rejected []string, err error) {
	for _, email := range rawList {
		e, lookupErr := directory.FindByEmail(email)
		if lookupErr != nil {
			return nil, nil, fmt.Errorf("recipient lookup failed for %s: %v", email, lookupErr)
		}
		if e == nil {
			rejected = append(rejected, fmt.Sprintf("%s (not found in directory)", email))
			continue
		}
		if !e.Status.IsWorking() {
			rejected = append(rejected, fmt.Sprintf("%s (status: %s)", email, e.Status))
			continue
		}
		if !e.Role.IsAdministrative() {
			rejected = append(rejected, fmt.Sprintf("%s (role: %s)", email, e.Role))
			continue
		}
		valid = append(valid, email)
	}
	return valid, rejected, nil
}
