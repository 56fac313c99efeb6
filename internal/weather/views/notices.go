package views

import (
	"wxdisplay/internal/weather"
)

const (
	SplashText     = " Weather Display\n\n  Starting up..."
	FetchingText   = " Fetching WX Data..."
	NoDataText     = "No data yet"
	ConnErrorText  = "Connection error!\n"
	JSONErrorText  = "JSON Error!\n"
	httpErrorTitle = "HTTP Error!\n"
)

// FetchErrorText is the notice shown for a failed fetch.
func FetchErrorText(err *weather.FetchError) string {
	switch err.Kind {
	case weather.HTTPFailure:
		return httpErrorTitle + err.Status
	case weather.ParseFailure:
		return JSONErrorText
	default:
		return ConnErrorText
	}
}
