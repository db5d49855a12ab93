package model

// Report is a saved query with presentation options. Slug is the uniqueness
// key within a project.
type Report struct {
	Slug     string                 `json:"slug" bson:"slug"`
	Name     string                 `json:"name" bson:"name"`
	Category string                 `json:"category,omitempty" bson:"category,omitempty"`
	Query    string                 `json:"query" bson:"query"`
	Options  map[string]interface{} `json:"options,omitempty" bson:"options,omitempty"`
	Shared   bool                   `json:"shared,omitempty" bson:"shared,omitempty"`
}

// CustomReport is a report rendered by an external report type plugin.
// The pair (ReportType, Name) is the uniqueness key within a project.
type CustomReport struct {
	ReportType string      `json:"reportType" bson:"report_type"`
	Name       string      `json:"name" bson:"name"`
	Data       interface{} `json:"data,omitempty" bson:"data,omitempty"`
}

// Key returns the identifying key of the custom report within its project.
func (r CustomReport) Key() string {
	return r.ReportType + "/" + r.Name
}

// CustomPage is a user-authored UI page. Slug is the uniqueness key within a
// project; Files maps file names to their contents.
type CustomPage struct {
	Slug     string            `json:"slug" bson:"slug"`
	Name     string            `json:"name" bson:"name"`
	Category string            `json:"category,omitempty" bson:"category,omitempty"`
	Files    map[string]string `json:"files,omitempty" bson:"files,omitempty"`
}
