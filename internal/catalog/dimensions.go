package catalog

import "experiment-funnel-service/internal/model"

// Dimension names accepted by the segmentation breakdown.
const (
	DimensionDevice        = "device"
	DimensionCulture       = "culture"
	DimensionFlowType      = "flow_type"
	DimensionTripType      = "trip_type"
	DimensionBundleProfile = "bundle_profile"
	DimensionTravelGroup   = "travel_group"
)

// Cultures lists the country codes the culture lookup recognizes.
func Cultures() []string {
	return []string{"CL", "AR", "PE", "CO", "BR", "UY", "PY", "EC", "US"}
}

// Devices lists the recognized device classes.
func Devices() []string {
	return []string{"desktop", "mobile"}
}

// FlowTypes lists the recognized flow type codes.
func FlowTypes() []string {
	return []string{"DB", "PB", "CK"}
}

// TripTypes lists the recognized trip type labels.
func TripTypes() []string {
	return []string{TripOneWay, TripRoundTrip}
}

// BundleProfiles lists the recognized bundle profiles.
func BundleProfiles() []string {
	return []string{BundleVuelaLigero, BundleSmart, BundleFull, BundleSmartFull}
}

// TravelGroups lists the recognized traveler groups.
func TravelGroups() []string {
	return []string{TravelGroupSolo, TravelGroupCouple, TravelGroupGroup, TravelGroupFamily}
}

// DimensionValues returns the full enumeration for one segmentation
// dimension, used when a breakdown request does not pin specific values.
func DimensionValues(dimension string) ([]string, bool) {
	switch dimension {
	case DimensionDevice:
		return Devices(), true
	case DimensionCulture:
		return Cultures(), true
	case DimensionFlowType:
		return FlowTypes(), true
	case DimensionTripType:
		return TripTypes(), true
	case DimensionBundleProfile:
		return BundleProfiles(), true
	case DimensionTravelGroup:
		return TravelGroups(), true
	default:
		return nil, false
	}
}

// ApplySegment returns a copy of the selection with one dimension replaced by
// the given segment value. Unknown dimensions report false.
func ApplySegment(sel model.Selection, dimension, value string) (model.Selection, bool) {
	switch dimension {
	case DimensionDevice:
		sel.Device = value
	case DimensionCulture:
		sel.Culture = value
	case DimensionFlowType:
		sel.FlowType = value
	case DimensionTripType:
		sel.TripType = value
	case DimensionBundleProfile:
		sel.BundleProfile = value
	case DimensionTravelGroup:
		sel.TravelGroup = value
	default:
		return sel, false
	}
	return sel, true
}

// CultureDevicePair is one (culture, device) cell of the standard
// segmentation grid.
type CultureDevicePair struct {
	Culture string
	Device  string
}

// CultureDevicePairs enumerates every culture and device combination.
func CultureDevicePairs() []CultureDevicePair {
	var pairs []CultureDevicePair
	for _, culture := range Cultures() {
		for _, device := range Devices() {
			pairs = append(pairs, CultureDevicePair{Culture: culture, Device: device})
		}
	}
	return pairs
}
