package tz

const quarter = 15

// Quantize rounds minute down to the quarter hour. The hour is returned as is.
func Quantize(hour, minute int) (int, int, error) {
	if minute < 0 || minute >= 60 {
		return 0, 0, &InvalidTimeError{Hour: hour, Minute: minute}
	}
	return hour, minute - minute%quarter, nil
}
