package model

// DashboardItem is one widget on a dashboard. Items carry no identity of
// their own; their position in the dashboard's item list is what matters,
// and two items may share a name.
type DashboardItem struct {
	Name      string                 `json:"name" bson:"name"`
	Directive string                 `json:"directive" bson:"directive"`
	Data      map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`
}

// Dashboard is a named, ordered list of items. Name is the uniqueness key
// within a project. Ref is the server-assigned identifier and is not part
// of the recipe document.
type Dashboard struct {
	Ref   string          `json:"-" bson:"-"`
	Name  string          `json:"name" bson:"name"`
	Items []DashboardItem `json:"items" bson:"items"`
}
