/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *Request:  Request body types from clients
  - *Response: Response bodies

The CSV route keeps the first release's envelope keys ("csv", "super_admin_list")
so existing callers keep working; run_id and the counts are additions.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rules.go: RulesJSON, embedded for per-request overrides
*/
package api

import (
	"github.com/warp/holiday-pay/factory"
)

// HolidayRequest is the JSON form of a holiday pay calculation.
type HolidayRequest struct {
	Holiday string             `json:"holiday"`
	CSV     string             `json:"csv"`
	Rules   *factory.RulesJSON `json:"rules,omitempty"`
}

// HolidayResponse carries the transformed table and the names needing
// extra approval.
type HolidayResponse struct {
	CSV            string   `json:"csv"`
	SuperAdminList []string `json:"super_admin_list"`
	RunID          string   `json:"run_id"`
	Holiday        string   `json:"holiday"`
	Rows           int      `json:"rows"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
