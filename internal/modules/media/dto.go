package media

import (
	"encoding/json"
	"strings"

	"mediavault/internal/domain"
)

// FlexibleTags accepts either a JSON array of strings or a single
// comma-separated string, matching what gallery clients actually send.
type FlexibleTags []string

func (t *FlexibleTags) UnmarshalJSON(data []byte) error {
	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		*t = asList
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*t = strings.Split(asString, ",")
	return nil
}

// CreateRequest is bound from the multipart form accompanying an upload.
type CreateRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Tags        string `form:"tags"`
	Category    string `form:"category"`
	Location    string `form:"location"`
	DateTaken   string `form:"dateTaken"`
	IsShared    string `form:"isShared"`
}

// UpdateRequest carries only the fields the caller supplied; a nil pointer
// means "leave unchanged".
type UpdateRequest struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Tags        *FlexibleTags `json:"tags,omitempty"`
	Category    *string       `json:"category,omitempty"`
	Location    *string       `json:"location,omitempty"`
	DateTaken   *string       `json:"dateTaken,omitempty"`
	IsShared    *bool         `json:"isShared,omitempty"`
	Rating      *int          `json:"rating,omitempty"`
}

func (r UpdateRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.Tags == nil &&
		r.Category == nil && r.Location == nil && r.DateTaken == nil &&
		r.IsShared == nil && r.Rating == nil
}

type BulkUpdateRequest struct {
	IDs     []int64       `json:"ids" binding:"required"`
	Updates UpdateRequest `json:"updates"`
}

type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

type ListQuery struct {
	Q         string `form:"q"`
	Tags      string `form:"tags"`
	Shared    string `form:"shared"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	SortBy    string `form:"sortBy,default=createdAt"`
	SortOrder string `form:"sortOrder,default=desc"`
	Category  string `form:"category"`
	DateFrom  string `form:"dateFrom"`
	DateTo    string `form:"dateTo"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type ListResponse struct {
	Items      []domain.MediaItem `json:"items"`
	Pagination Pagination         `json:"pagination"`
}
