package model

// ContinuousQuery is a standing query whose result set is incrementally
// maintained into a table. TableName is the uniqueness key within a project.
type ContinuousQuery struct {
	Name          string                 `json:"name" bson:"name"`
	TableName     string                 `json:"tableName" bson:"table_name"`
	Query         string                 `json:"query" bson:"query"`
	PartitionKeys []string               `json:"partitionKeys,omitempty" bson:"partition_keys,omitempty"`
	Options       map[string]interface{} `json:"options,omitempty" bson:"options,omitempty"`
}
