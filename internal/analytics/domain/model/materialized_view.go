package model

import "time"

// MaterializedView is a query whose result set is computed and cached on a
// schedule. TableName is the uniqueness key within a project.
type MaterializedView struct {
	Name           string                 `json:"name" bson:"name"`
	TableName      string                 `json:"tableName" bson:"table_name"`
	Query          string                 `json:"query" bson:"query"`
	UpdateInterval time.Duration          `json:"updateInterval,omitempty" bson:"update_interval,omitempty"`
	Incremental    bool                   `json:"incremental,omitempty" bson:"incremental,omitempty"`
	Options        map[string]interface{} `json:"options,omitempty" bson:"options,omitempty"`
}
