package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Coordinate accepts either a JSON number or a numeric string, since older
// tourist clients send coordinates as strings.
type Coordinate float64

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*c = Coordinate(num)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid coordinate: %s", string(data))
	}

	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	*c = Coordinate(num)
	return nil
}

type SubmitReportRequest struct {
	Name   string     `json:"name" binding:"required"`
	Lat    Coordinate `json:"lat"`
	Lon    Coordinate `json:"lon"`
	Mobile string     `json:"mobile"`
}

type SubmitReportResponse struct {
	Message  string    `json:"message"`
	Zone     ZoneLevel `json:"zone"`
	CaseCode string    `json:"caseId"`
}

type ReplyRequest struct {
	Name  string `json:"name" binding:"required"`
	Reply string `json:"reply" binding:"required"`
}

type ResolveRequest struct {
	ResolvedBy string `json:"resolvedBy"`
}
