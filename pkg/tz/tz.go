package tz

import "time"

// Moscow is the bot's default timezone (MSK).
var Moscow *time.Location

func init() {
	var err error
	Moscow, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		// MSK has been a fixed UTC+3 offset since 2014.
		Moscow = time.FixedZone("MSK", 3*60*60)
	}
}
