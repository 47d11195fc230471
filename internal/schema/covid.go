package schema

import "regexp"

// Column names of the Johns-Hopkins wide time-series layout: a handful of
// identifier columns followed by one column per date.
const (
	ColProvinceState = "Province/State"
	ColCountryRegion = "Country/Region"
	ColLat           = "Lat"
	ColLong          = "Long"
)

// Categories of case observations, one per source file.
const (
	CategoryConfirmed = "Confirmed"
	CategoryDeaths    = "Deaths"
	CategoryRecovered = "Recovered"
)

// Categories lists the valid observation categories in display order.
var Categories = []string{CategoryConfirmed, CategoryDeaths, CategoryRecovered}

// DateColumnLayout is the parse layout of wide-table date column headers:
// 1-2 digit month and day, 2-digit year.
const DateColumnLayout = "1/2/06"

// dateColumnRe recognizes wide-table date column headers. Headers that do not
// match are assumed to be non-date metadata and are silently excluded from
// reshaping.
var dateColumnRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`)

// IsDateColumn reports whether the header names a date-valued column.
func IsDateColumn(header string) bool { return dateColumnRe.MatchString(header) }

// ValidCategory reports whether s is one of the known observation categories.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

// CaseSeries returns the contract for the identifier columns of the JHU wide
// layout. Date columns are not enumerated here (their set grows daily in the
// source); the reshaper recognizes them by IsDateColumn. Lat/Long are dropped
// before reshaping.
func CaseSeries() Contract {
	return Contract{
		Name:     "cases",
		KeyField: ColCountryRegion,
		Fields: []Field{
			{Name: ColProvinceState, Role: RoleText},
			{Name: ColCountryRegion, Role: RoleText, Missing: MissingDropRow},
			{Name: ColLat, Role: RoleDrop},
			{Name: ColLong, Role: RoleDrop},
		},
	}
}
