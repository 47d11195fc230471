package schema

// Column names of the NYPD shooting-incident extract. The names match the
// source CSV headers exactly; the parser does not lowercase headers for this
// dataset.
const (
	ColIncidentKey      = "INCIDENT_KEY"
	ColOccurDate        = "OCCUR_DATE"
	ColOccurTime        = "OCCUR_TIME"
	ColBorough          = "BORO"
	ColPrecinct         = "PRECINCT"
	ColJurisdictionCode = "JURISDICTION_CODE"
	ColMurderFlag       = "STATISTICAL_MURDER_FLAG"
	ColPerpAgeGroup     = "PERP_AGE_GROUP"
	ColPerpSex          = "PERP_SEX"
	ColPerpRace         = "PERP_RACE"
	ColVicAgeGroup      = "VIC_AGE_GROUP"
	ColVicSex           = "VIC_SEX"
	ColVicRace          = "VIC_RACE"
	ColLatitude         = "Latitude"
	ColLongitude        = "Longitude"
)

// AgeGroups is the canonical age-group domain in display order.
var AgeGroups = []string{"<18", "18-24", "25-44", "45-64", "65+", Unknown}

// AgeGroupRepairs remaps known-corrupt age tokens observed in the source
// extract. The remap runs strictly before enum assignment.
var AgeGroupRepairs = map[string]string{
	"1022": "18-24",
	"224":  "25-44",
}

// Boroughs is the NYC borough domain. The source is consistently upper-cased
// here, so the original casing is preserved.
var Boroughs = []string{"BRONX", "BROOKLYN", "MANHATTAN", "QUEENS", "STATEN ISLAND"}

// Sexes and Races are the perpetrator/victim demographic domains.
var (
	Sexes = []string{"M", "F", Unknown}
	Races = []string{
		"AMERICAN INDIAN/ALASKAN NATIVE",
		"ASIAN / PACIFIC ISLANDER",
		"BLACK",
		"BLACK HISPANIC",
		"WHITE",
		"WHITE HISPANIC",
		Unknown,
	}
)

// Shootings returns the contract for the NYPD shooting-incident dataset.
//
// Incident dates carry a month/day/year layout; times are HH:MM:SS since
// midnight. Jurisdiction code and coordinates are required post-cleaning
// (rows missing them are dropped); the perpetrator demographics fill with
// Unknown since open cases legitimately lack them. Geometry duplicates and
// free-text location columns are dropped outright.
func Shootings() Contract {
	return Contract{
		Name:     "shootings",
		KeyField: ColIncidentKey,
		Fields: []Field{
			{Name: ColIncidentKey, Role: RoleText},
			{Name: ColOccurDate, Role: RoleDate, Layout: "1/2/2006"},
			{Name: ColOccurTime, Role: RoleTime, Layout: "15:04:05"},
			{Name: ColBorough, Role: RoleCategorical, Enum: Boroughs},
			{Name: ColPrecinct, Role: RoleNumeric},
			{Name: ColJurisdictionCode, Role: RoleNumeric, Missing: MissingDropRow},
			{Name: ColMurderFlag, Role: RoleBool},
			{Name: ColPerpAgeGroup, Role: RoleCategorical, Enum: AgeGroups, Missing: MissingFillUnknown, Repairs: AgeGroupRepairs},
			{Name: ColPerpSex, Role: RoleCategorical, Enum: Sexes, Missing: MissingFillUnknown},
			{Name: ColPerpRace, Role: RoleCategorical, Enum: Races, Missing: MissingFillUnknown},
			{Name: ColVicAgeGroup, Role: RoleCategorical, Enum: AgeGroups, Repairs: AgeGroupRepairs},
			{Name: ColVicSex, Role: RoleCategorical, Enum: Sexes},
			{Name: ColVicRace, Role: RoleCategorical, Enum: Races},
			{Name: ColLatitude, Role: RoleNumeric, Missing: MissingDropRow},
			{Name: ColLongitude, Role: RoleNumeric, Missing: MissingDropRow},
			{Name: "LOC_OF_OCCUR_DESC", Role: RoleDrop},
			{Name: "LOC_CLASSFCTN_DESC", Role: RoleDrop},
			{Name: "LOCATION_DESC", Role: RoleDrop},
			{Name: "X_COORD_CD", Role: RoleDrop},
			{Name: "Y_COORD_CD", Role: RoleDrop},
			{Name: "Lon_Lat", Role: RoleDrop},
		},
	}
}
