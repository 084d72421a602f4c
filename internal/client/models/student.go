package models

// Student is one row of the student register.
type Student struct {
	ID         string `json:"_id,omitempty"`
	Name       string `json:"name"`
	Sex        bool   `json:"sex"`
	Birth      string `json:"birth"`
	Phone      string `json:"phone"`
	Bro        string `json:"bro"`
	CreateTime string `json:"createTime,omitempty"`
}

// StudentListParams filters and pages GET /student/getStudentList.
// Filter entries are sent as filter[key]=value.
type StudentListParams struct {
	PageIndex int
	PageSize  int
	StartTime string
	EndTime   string
	Filter    map[string]string
}

// Params renders the query parameter record for the request interceptor.
// Zero values are left out so they never reach the query string.
func (p StudentListParams) Params() map[string]any {
	params := map[string]any{}
	if p.PageIndex > 0 {
		params["pageIndex"] = p.PageIndex
	}
	if p.PageSize > 0 {
		params["pageSize"] = p.PageSize
	}
	if p.StartTime != "" {
		params["startTime"] = p.StartTime
	}
	if p.EndTime != "" {
		params["endTime"] = p.EndTime
	}
	if len(p.Filter) > 0 {
		params["filter"] = p.Filter
	}
	return params
}

// StudentList is the data payload of the list endpoint.
type StudentList struct {
	Data    []Student `json:"data"`
	Total   int       `json:"total"`
	Success bool      `json:"success"`
}
