// Package catalog holds the static filter lookup tables and the metric
// registry. Lookups are total and pure: "ALL" or an unrecognized value
// resolves to no filter, never to an error.
package catalog

import (
	"strings"

	"experiment-funnel-service/internal/model"
)

// Revenue/confirmation events expose a different property schema than the
// funnel-step events: flow_type is empty, the bundle count properties are
// missing, and passenger counts live under passengers_* keys with infants
// folded into the child count. Filtering those properties on these events
// returns zero matches.
const (
	revenueEvent             = "revenue_amount"
	paymentConfirmationEvent = "payment_confirmation_loaded"
)

// IsRevenueEvent reports whether the event is the terminal revenue or
// payment-confirmation event.
func IsRevenueEvent(event string) bool {
	lower := strings.ToLower(event)
	return strings.Contains(lower, revenueEvent) || strings.Contains(lower, paymentConfirmationEvent)
}

var cultureValues = map[string][]any{
	"CL": {"cl", "CL", "cL", "Cl", "es-CL", "CHILE", "es-cl"},
	"AR": {"ar", "AR", "aR", "Ar", "es-AR", "ARGENTINA", "es-ar"},
	"PE": {"pe", "PE", "pE", "Pe", "es-PE", "PERU", "es-pe"},
	"CO": {"co", "CO", "cO", "Co", "es-CO", "COLOMBIA", "es-co"},
	"BR": {"br", "BR", "bR", "Br", "pt-BR", "BRAZIL", "pt-br"},
	"UY": {"uy", "UY", "uY", "Uy", "es-UY", "URUGUAY", "es-uy"},
	"PY": {"py", "PY", "pY", "Py", "es-PY", "PARAGUAY", "es-py"},
	"EC": {"ec", "EC", "eC", "Ec", "es-EC", "ECUADOR", "es-ec"},
	"US": {"us", "US", "uS", "Us", "en-US", "UNITED STATES", "en-us"},
}

// CultureFilter maps a country code to its culture predicate. The value list
// covers every spelling the site has historically emitted for the culture
// property.
func CultureFilter(code string) []model.Predicate {
	values, ok := cultureValues[code]
	if !ok {
		return nil
	}
	return []model.Predicate{{
		Type:   model.PropEvent,
		Key:    "culture",
		Op:     model.OpIs,
		Values: values,
	}}
}

// CultureFilterMulti combines several country codes into one OR predicate by
// merging their value lists.
func CultureFilterMulti(codes []string) []model.Predicate {
	var merged []any
	for _, code := range codes {
		if values, ok := cultureValues[code]; ok {
			merged = append(merged, values...)
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return []model.Predicate{{
		Type:   model.PropEvent,
		Key:    "culture",
		Op:     model.OpIs,
		Values: merged,
	}}
}

var mobileDeviceValues = []any{"Android", "Apple iPhone"}

// DeviceFilter maps a device class to a user-scope predicate. Desktop is
// expressed as "not a mobile device" because the upstream property only
// enumerates mobile hardware.
func DeviceFilter(device string) []model.Predicate {
	switch strings.ToLower(strings.TrimSpace(device)) {
	case "mobile":
		return []model.Predicate{{
			GroupType: "User",
			Type:      model.PropUser,
			Key:       "device_type",
			Op:        model.OpIs,
			Values:    mobileDeviceValues,
		}}
	case "desktop":
		return []model.Predicate{{
			GroupType: "User",
			Type:      model.PropUser,
			Key:       "device_type",
			Op:        model.OpIsNot,
			Values:    mobileDeviceValues,
		}}
	default:
		return nil
	}
}

// DeviceFilterMulti returns a device predicate when exactly one recognized
// device is selected. Desktop and mobile use opposing operators on the same
// property, so a multi-device selection cannot be expressed as one predicate
// and resolves to no filter (all devices).
func DeviceFilterMulti(devices []string) []model.Predicate {
	if len(devices) == 1 {
		return DeviceFilter(devices[0])
	}
	return nil
}

var flowTypeValues = map[string][]any{
	"DB": {"DB"},
	"PB": {"PB"},
	"CK": {"CK"},
}

// FlowTypeFilter maps a flow type code (DB, PB, CK) to its event predicate.
func FlowTypeFilter(flowType string) []model.Predicate {
	values, ok := flowTypeValues[flowType]
	if !ok {
		return nil
	}
	return []model.Predicate{{
		Type:   model.PropEvent,
		Key:    "flow_type",
		Op:     model.OpIs,
		Values: values,
	}}
}

// FlowTypeFilterMulti merges several flow types into one OR predicate.
func FlowTypeFilterMulti(flowTypes []string) []model.Predicate {
	var merged []any
	for _, ft := range flowTypes {
		if values, ok := flowTypeValues[ft]; ok {
			merged = append(merged, values...)
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return []model.Predicate{{
		Type:   model.PropEvent,
		Key:    "flow_type",
		Op:     model.OpIs,
		Values: merged,
	}}
}

// DuringBookingFilter is the flow_type=DB predicate metric definitions attach
// to individual steps.
func DuringBookingFilter() model.Predicate {
	return model.Predicate{
		Type:   model.PropEvent,
		Key:    "flow_type",
		Op:     model.OpIs,
		Values: []any{"DB"},
	}
}

const (
	TripOneWay    = "Solo Ida (One Way)"
	TripRoundTrip = "Ida y Vuelta (Round Trip)"
)

// TripTypeFilter maps a trip type label to its event predicate.
func TripTypeFilter(tripType string) []model.Predicate {
	var value string
	switch tripType {
	case TripOneWay:
		value = "O"
	case TripRoundTrip:
		value = "R"
	default:
		return nil
	}
	return []model.Predicate{{
		Type:   model.PropEvent,
		Key:    "trip_type",
		Op:     model.OpIs,
		Values: []any{value},
	}}
}

// TripTypeFilterMulti returns a trip-type predicate when exactly one type is
// selected; both types together cover everything and resolve to no filter.
func TripTypeFilterMulti(tripTypes []string) []model.Predicate {
	if len(tripTypes) == 1 {
		return TripTypeFilter(tripTypes[0])
	}
	return nil
}

const (
	BundleVuelaLigero = "Vuela Ligero"
	BundleSmart       = "Smart"
	BundleFull        = "Full"
	BundleSmartFull   = "Smart + Full"
)

func bundleCountPredicate(key string, op model.Op) model.Predicate {
	return model.Predicate{
		Type:   model.PropEvent,
		Key:    key,
		Op:     op,
		Values: []any{0},
	}
}

// BundleFilters maps a bundle profile to its predicate set. Profiles are
// expressed over the smart/full count properties; "Vuela Ligero" means
// neither bundle was bought.
func BundleFilters(profile string) []model.Predicate {
	switch profile {
	case BundleVuelaLigero:
		return []model.Predicate{
			bundleCountPredicate("bundle_smart_count", model.OpIs),
			bundleCountPredicate("bundle_full_count", model.OpIs),
		}
	case BundleSmart:
		return []model.Predicate{bundleCountPredicate("bundle_smart_count", model.OpIsNot)}
	case BundleFull:
		return []model.Predicate{bundleCountPredicate("bundle_full_count", model.OpIsNot)}
	case BundleSmartFull:
		return []model.Predicate{
			bundleCountPredicate("bundle_smart_count", model.OpIsNot),
			bundleCountPredicate("bundle_full_count", model.OpIsNot),
		}
	default:
		return nil
	}
}

// BundleFiltersMulti concatenates the predicate sets of the selected
// profiles. Selecting every profile covers everything and resolves to no
// filter. Note the concatenation is evaluated upstream as AND, not OR.
func BundleFiltersMulti(profiles []string) []model.Predicate {
	if len(profiles) == 0 || len(profiles) >= len(BundleProfiles()) {
		return nil
	}
	var filters []model.Predicate
	for _, profile := range profiles {
		filters = append(filters, BundleFilters(profile)...)
	}
	return filters
}

const (
	TravelGroupSolo   = "Viajero Solo"
	TravelGroupCouple = "Pareja"
	TravelGroupGroup  = "Grupo"
	TravelGroupFamily = "Familia (con Menores)"
)

func paxPredicate(key string, op model.Op, values ...any) model.Predicate {
	return model.Predicate{Type: model.PropEvent, Key: key, Op: op, Values: values}
}

// TravelGroupFilters maps a traveler-group label to its predicate set for a
// specific target event. The revenue_amount event renames the count
// properties (passengers_adult_count / passengers_child_count) and folds
// infants into the child count, so no infant predicate is required there.
// payment_confirmation_loaded keeps the pax_* property names. Getting this
// mapping wrong silently zeroes out the filtered cohort.
func TravelGroupFilters(group, event string) []model.Predicate {
	if strings.Contains(strings.ToLower(event), revenueEvent) {
		const (
			keyAdult = "passengers_adult_count"
			keyChild = "passengers_child_count"
		)
		switch group {
		case TravelGroupSolo:
			return []model.Predicate{
				paxPredicate(keyAdult, model.OpIs, 1, "1"),
				paxPredicate(keyChild, model.OpIs, 0, "0"),
			}
		case TravelGroupCouple:
			return []model.Predicate{
				paxPredicate(keyAdult, model.OpIs, 2, "2"),
				paxPredicate(keyChild, model.OpIs, 0, "0"),
			}
		case TravelGroupGroup:
			return []model.Predicate{
				paxPredicate(keyAdult, model.OpGreater, 2),
				paxPredicate(keyChild, model.OpIs, 0, "0"),
			}
		case TravelGroupFamily:
			return []model.Predicate{
				paxPredicate(keyAdult, model.OpGreater, 0),
				paxPredicate(keyChild, model.OpGreater, 0),
			}
		default:
			return nil
		}
	}

	const (
		keyAdult  = "pax_adult_count"
		keyChild  = "pax_children_count"
		keyInfant = "pax_infant_count"
	)
	switch group {
	case TravelGroupSolo:
		return []model.Predicate{
			paxPredicate(keyAdult, model.OpIs, 1, "1"),
			paxPredicate(keyChild, model.OpIs, 0, "0"),
			paxPredicate(keyInfant, model.OpIs, 0, "0"),
		}
	case TravelGroupCouple:
		return []model.Predicate{
			paxPredicate(keyAdult, model.OpIs, 2, "2"),
			paxPredicate(keyChild, model.OpIs, 0, "0"),
			paxPredicate(keyInfant, model.OpIs, 0, "0"),
		}
	case TravelGroupGroup:
		return []model.Predicate{
			paxPredicate(keyAdult, model.OpGreater, 2),
			paxPredicate(keyChild, model.OpIs, 0, "0"),
			paxPredicate(keyInfant, model.OpIs, 0, "0"),
		}
	case TravelGroupFamily:
		// Children-only check: an infants-only family would need OR across
		// pax_children_count and pax_infant_count, which the upstream
		// filter grammar cannot express.
		return []model.Predicate{
			paxPredicate(keyAdult, model.OpGreater, 0),
			paxPredicate(keyChild, model.OpGreater, 0),
		}
	default:
		return nil
	}
}

// TravelGroupFiltersMulti concatenates the predicate sets of the selected
// groups for one target event. Selecting all groups resolves to no filter.
// Concatenation is evaluated upstream as AND, not the intended OR; callers
// relying on multi-group selections should treat the output as approximate.
func TravelGroupFiltersMulti(groups []string, event string) []model.Predicate {
	if len(groups) == 0 || len(groups) >= len(TravelGroups()) {
		return nil
	}
	var filters []model.Predicate
	for _, group := range groups {
		filters = append(filters, TravelGroupFilters(group, event)...)
	}
	return filters
}

// PaxAdultCountFilter is the legacy adult-count dimension, used only when no
// traveler-group selection is active.
func PaxAdultCountFilter(count string) []model.Predicate {
	const key = "pax_adult_count"
	switch count {
	case "1 Adulto":
		return []model.Predicate{paxPredicate(key, model.OpIs, 1)}
	case "2 Adultos":
		return []model.Predicate{paxPredicate(key, model.OpIs, 2)}
	case "3 Adultos":
		return []model.Predicate{paxPredicate(key, model.OpIs, 3)}
	case "4+ Adultos":
		return []model.Predicate{paxPredicate(key, model.OpGreaterOrEqual, 4)}
	default:
		return nil
	}
}

// TrafficTypeFilter maps an acquisition channel bucket to its derived-property
// predicate. The key is the derived property's upstream identifier.
func TrafficTypeFilter(trafficType string) []model.Predicate {
	const derivedKey = "acce9394-0a0d-4285-95a8-c5c1678ddc86"
	var values []any
	switch trafficType {
	case "Pagado":
		values = []any{"Display", "Paid Search"}
	case "Promoted":
		values = []any{"Affiliates", "Email", "Metasearch", "Social", "Web Push"}
	case "Organico":
		values = []any{"Direct", "Organic Search", "Referral"}
	default:
		return nil
	}
	return []model.Predicate{{
		GroupType: "User",
		Type:      model.PropDerivedV2,
		Key:       derivedKey,
		Op:        model.OpIs,
		Values:    values,
	}}
}

// CabinBagFilter matches sessions that added at least one cabin bag.
func CabinBagFilter() model.Predicate {
	return paxCountGreaterZero("cabin_bag_count")
}

// CheckedBagFilter matches sessions that added at least one checked bag.
func CheckedBagFilter() model.Predicate {
	return paxCountGreaterZero("checked_bag_count")
}

// SeatSelectedFilter matches sessions that selected at least one seat.
func SeatSelectedFilter() model.Predicate {
	return paxCountGreaterZero("seats")
}

// BundleSelectedFilter matches sessions that selected a bundle.
func BundleSelectedFilter() model.Predicate {
	return model.Predicate{
		Type:   model.PropEvent,
		Key:    "bundle_selected",
		Op:     model.OpIs,
		Values: []any{"true", "True", "1"},
	}
}

func paxCountGreaterZero(key string) model.Predicate {
	return model.Predicate{
		Type:   model.PropEvent,
		Key:    key,
		Op:     model.OpGreater,
		Values: []any{"0"},
	}
}
