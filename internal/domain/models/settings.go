package models

// Setting is a single named numeric knob stored by the record store.
// Keys are kept from the original schema so existing databases remain
// readable.
type Setting struct {
	ID    int64   `json:"id" db:"id" bson:"_id"`
	Key   string  `json:"key" db:"key" bson:"key"`
	Value float64 `json:"value" db:"value" bson:"value"`
}

// Known setting keys
const (
	SettingAlertKM   = "km_aviso"
	SettingAlertDays = "data_limite_dias"
)

// Default threshold values used when a setting is absent or unreadable
const (
	DefaultAlertKM   = 1000.0
	DefaultAlertDays = 30.0
)

// AlertThresholds are the two tunables read by the status engine on every
// evaluation: the distance and the day window before expiry at which a
// record enters alert.
type AlertThresholds struct {
	AlertKM   float64 `json:"km_aviso"`
	AlertDays float64 `json:"data_limite_dias"`
}

// DefaultThresholds returns the documented fallback thresholds
func DefaultThresholds() AlertThresholds {
	return AlertThresholds{AlertKM: DefaultAlertKM, AlertDays: DefaultAlertDays}
}

// Lookup is a name-keyed label row backing the free-text maintenance
// fields (category, responsible, workshop).
type Lookup struct {
	ID   int64  `json:"id" db:"id" bson:"_id"`
	Name string `json:"name" db:"name" bson:"name"`
}

// LookupKind selects which lookup table a repository call targets
type LookupKind string

const (
	LookupCategory    LookupKind = "category"
	LookupResponsible LookupKind = "responsible"
	LookupWorkshop    LookupKind = "workshop"
)
