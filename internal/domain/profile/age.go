package profile

import "time"

// Age returns the number of completed years between birth and now, or nil
// when no birth date is on file. Only calendar fields are compared, so the
// result does not depend on the time of day or on time zones.
func Age(birth *time.Time, now time.Time) *int {
	if birth == nil {
		return nil
	}
	by, bm, bd := birth.Date()
	ny, nm, nd := now.Date()

	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return &age
}
