package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"experiment-funnel-service/internal/model"
)

func TestIsRevenueEvent(t *testing.T) {
	require.True(t, IsRevenueEvent("revenue_amount"))
	require.True(t, IsRevenueEvent("REVENUE_AMOUNT"))
	require.True(t, IsRevenueEvent("payment_confirmation_loaded"))
	require.False(t, IsRevenueEvent("payment_dom_loaded"))
	require.False(t, IsRevenueEvent("seatmap_dom_loaded"))
}

func TestCultureFilter(t *testing.T) {
	filters := CultureFilter("CL")
	require.Len(t, filters, 1)
	require.Equal(t, "culture", filters[0].Key)
	require.Equal(t, model.OpIs, filters[0].Op)
	require.Contains(t, filters[0].Values, "es-CL")
	require.Contains(t, filters[0].Values, "CHILE")

	require.Nil(t, CultureFilter("ZZ"))
}

func TestCultureFilterMulti(t *testing.T) {
	filters := CultureFilterMulti([]string{"CL", "AR"})
	require.Len(t, filters, 1)
	require.Contains(t, filters[0].Values, "es-CL")
	require.Contains(t, filters[0].Values, "es-AR")

	require.Nil(t, CultureFilterMulti([]string{"ZZ"}))
}

func TestDeviceFilter(t *testing.T) {
	mobile := DeviceFilter("mobile")
	require.Len(t, mobile, 1)
	require.Equal(t, "User", mobile[0].GroupType)
	require.Equal(t, model.PropUser, mobile[0].Type)
	require.Equal(t, model.OpIs, mobile[0].Op)
	require.Equal(t, []any{"Android", "Apple iPhone"}, mobile[0].Values)

	desktop := DeviceFilter("Desktop")
	require.Len(t, desktop, 1)
	require.Equal(t, model.OpIsNot, desktop[0].Op)
	require.Equal(t, mobile[0].Values, desktop[0].Values)

	require.Nil(t, DeviceFilter("tablet"))
}

func TestDeviceFilterMulti_BothDevicesMeansNoFilter(t *testing.T) {
	require.Nil(t, DeviceFilterMulti([]string{"desktop", "mobile"}))
	require.Len(t, DeviceFilterMulti([]string{"mobile"}), 1)
}

func TestTripTypeFilter(t *testing.T) {
	oneWay := TripTypeFilter(TripOneWay)
	require.Len(t, oneWay, 1)
	require.Equal(t, []any{"O"}, oneWay[0].Values)

	roundTrip := TripTypeFilter(TripRoundTrip)
	require.Equal(t, []any{"R"}, roundTrip[0].Values)

	require.Nil(t, TripTypeFilter("Multidestino"))
}

func TestBundleFilters(t *testing.T) {
	ligero := BundleFilters(BundleVuelaLigero)
	require.Len(t, ligero, 2)
	for _, f := range ligero {
		require.Equal(t, model.OpIs, f.Op)
		require.Equal(t, []any{0}, f.Values)
	}

	smart := BundleFilters(BundleSmart)
	require.Len(t, smart, 1)
	require.Equal(t, "bundle_smart_count", smart[0].Key)
	require.Equal(t, model.OpIsNot, smart[0].Op)

	both := BundleFilters(BundleSmartFull)
	require.Len(t, both, 2)

	require.Nil(t, BundleFilters("Premium"))
}

func TestTravelGroupFilters_FrontendEvent(t *testing.T) {
	filters := TravelGroupFilters(TravelGroupCouple, "baggage_dom_loaded")
	require.Len(t, filters, 3)
	require.Equal(t, "pax_adult_count", filters[0].Key)
	require.Equal(t, []any{2, "2"}, filters[0].Values)
	require.Equal(t, "pax_children_count", filters[1].Key)
	require.Equal(t, "pax_infant_count", filters[2].Key)
}

func TestTravelGroupFilters_RevenueEventRenamesProperties(t *testing.T) {
	filters := TravelGroupFilters(TravelGroupCouple, "revenue_amount")
	require.Len(t, filters, 2)
	require.Equal(t, "passengers_adult_count", filters[0].Key)
	require.Equal(t, "passengers_child_count", filters[1].Key)
	for _, f := range filters {
		require.NotContains(t, f.Key, "infant")
	}
}

func TestTravelGroupFilters_PaymentConfirmationKeepsFrontendProperties(t *testing.T) {
	// Only revenue_amount renames the count properties;
	// payment_confirmation_loaded still exposes the pax_* schema.
	filters := TravelGroupFilters(TravelGroupSolo, "payment_confirmation_loaded")
	require.Len(t, filters, 3)
	require.Equal(t, "pax_adult_count", filters[0].Key)
	require.Equal(t, "pax_children_count", filters[1].Key)
	require.Equal(t, "pax_infant_count", filters[2].Key)
}

func TestTravelGroupFilters_FamilySkipsInfantPredicate(t *testing.T) {
	filters := TravelGroupFilters(TravelGroupFamily, "extras_dom_loaded")
	require.Len(t, filters, 2)
	require.Equal(t, "pax_adult_count", filters[0].Key)
	require.Equal(t, model.OpGreater, filters[0].Op)
	require.Equal(t, "pax_children_count", filters[1].Key)
	require.Equal(t, model.OpGreater, filters[1].Op)
}

func TestTravelGroupFilters_Unknown(t *testing.T) {
	require.Nil(t, TravelGroupFilters("Equipo", "revenue_amount"))
	require.Nil(t, TravelGroupFilters("Equipo", "baggage_dom_loaded"))
}

func TestPaxAdultCountFilter(t *testing.T) {
	one := PaxAdultCountFilter("1 Adulto")
	require.Len(t, one, 1)
	require.Equal(t, model.OpIs, one[0].Op)
	require.Equal(t, []any{1}, one[0].Values)

	fourPlus := PaxAdultCountFilter("4+ Adultos")
	require.Equal(t, model.OpGreaterOrEqual, fourPlus[0].Op)
	require.Equal(t, []any{4}, fourPlus[0].Values)

	require.Nil(t, PaxAdultCountFilter("5 Adultos"))
}

func TestTripTypeFilterMulti_BothTypesMeansNoFilter(t *testing.T) {
	require.Nil(t, TripTypeFilterMulti([]string{TripOneWay, TripRoundTrip}))
	require.Len(t, TripTypeFilterMulti([]string{TripOneWay}), 1)
}

func TestBundleFiltersMulti(t *testing.T) {
	require.Nil(t, BundleFiltersMulti(BundleProfiles()))
	require.Nil(t, BundleFiltersMulti(nil))

	filters := BundleFiltersMulti([]string{BundleSmart, BundleFull})
	require.Len(t, filters, 2)
}

func TestTravelGroupFiltersMulti(t *testing.T) {
	require.Nil(t, TravelGroupFiltersMulti(TravelGroups(), "revenue_amount"))

	filters := TravelGroupFiltersMulti([]string{TravelGroupSolo, TravelGroupCouple}, "revenue_amount")
	require.Len(t, filters, 4)
	for _, f := range filters {
		require.Contains(t, f.Key, "passengers_")
	}
}

func TestStepHelperFilters(t *testing.T) {
	require.Equal(t, "flow_type", DuringBookingFilter().Key)
	require.Equal(t, []any{"DB"}, DuringBookingFilter().Values)

	require.Equal(t, "cabin_bag_count", CabinBagFilter().Key)
	require.Equal(t, "checked_bag_count", CheckedBagFilter().Key)
	require.Equal(t, "seats", SeatSelectedFilter().Key)
	require.Equal(t, model.OpGreater, SeatSelectedFilter().Op)

	require.Equal(t, "bundle_selected", BundleSelectedFilter().Key)
	require.Contains(t, BundleSelectedFilter().Values, "true")
}

func TestFlowTypeFilterMulti(t *testing.T) {
	filters := FlowTypeFilterMulti([]string{"DB", "PB"})
	require.Len(t, filters, 1)
	require.Equal(t, []any{"DB", "PB"}, filters[0].Values)

	require.Nil(t, FlowTypeFilterMulti([]string{"XX"}))
}

func TestTrafficTypeFilter(t *testing.T) {
	paid := TrafficTypeFilter("Pagado")
	require.Len(t, paid, 1)
	require.Equal(t, model.PropDerivedV2, paid[0].Type)
	require.Equal(t, "User", paid[0].GroupType)
	require.Contains(t, paid[0].Values, "Paid Search")

	require.Nil(t, TrafficTypeFilter("Other"))
}
