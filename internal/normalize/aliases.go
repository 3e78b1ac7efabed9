package normalize

// fieldAliases maps each canonical form field to the spellings accepted for
// it, in precedence order.
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{"client_name", []string{"name", "client_name", "full_name", "clientName", "fullName", "customer_name", "customerName"}},
	{"email", []string{"email", "email_address", "contact_email", "emailAddress", "contactEmail"}},
	{"phone", []string{"phone", "phone_number", "contact_phone", "mobile", "phoneNumber", "contactPhone", "telephone"}},
	{"project_type", []string{"project_type", "projectType", "type", "service_type", "serviceType", "project_category"}},
	{"budget_range", []string{"budget", "budget_range", "budgetRange", "price_range", "priceRange", "budget_amount"}},
	{"timeline", []string{"timeline", "timeframe", "deadline", "completion_date", "completionDate", "project_timeline"}},
	{"address", []string{"address", "location", "property_address", "propertyAddress", "home_address"}},
	{"room_count", []string{"rooms", "room_count", "number_of_rooms", "roomCount", "numberOfRooms"}},
	{"square_feet", []string{"square_feet", "squareFeet", "area", "size", "property_size", "propertySize"}},
	{"style_preference", []string{"style", "style_preference", "design_style", "stylePreference", "designStyle", "preferred_style"}},
	{"urgency", []string{"urgency", "priority", "timeline_urgency", "project_priority"}},
}

var knownAliases = func() map[string]bool {
	m := make(map[string]bool)
	for _, fa := range fieldAliases {
		for _, a := range fa.aliases {
			m[a] = true
		}
	}
	return m
}()

// sensitiveMarkers drop any field whose lowercased key contains one of them
var sensitiveMarkers = []string{"password", "token", "key", "secret", "auth", "credential"}

var criticalFields = []string{"client_name", "email", "project_type"}
