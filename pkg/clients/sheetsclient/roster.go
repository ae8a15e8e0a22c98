package sheetsclient

import (
	"fmt"
	"strings"
)

// PublishedRosterRow is one date of the published calendar
type PublishedRosterRow struct {
	Date    string // Format: "2006-01-02"
	Weekday string // Format: "Mon"
	Day     PublishedShift
	Night   PublishedShift
}

// PublishedShift is one category's staffing on a date. Present is false
// when the category has no slot (or no adopted roster) on that date.
type PublishedShift struct {
	Present  bool
	Required int
	Names    []string
}

// PublishedRoster is the merged day and night roster for one period
type PublishedRoster struct {
	// Title names the tab, e.g. "2025-01-H1"
	Title string
	Rows  []PublishedRosterRow
}

var rosterHeader = []interface{}{"Date", "Weekday", "Day", "Day staffed", "Night", "Night staffed"}

// PublishRoster writes the roster to the tab named by its title, creating
// the tab if needed. An existing tab is cleared and rewritten.
func (c *Client) PublishRoster(spreadsheetID string, published *PublishedRoster) error {
	existing, err := c.findSheet(spreadsheetID, published.Title)
	if err != nil {
		return err
	}

	if existing == nil {
		if _, err := c.CreateSheet(spreadsheetID, published.Title); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	} else if err := c.ClearSheet(spreadsheetID, published.Title); err != nil {
		return fmt.Errorf("failed to clear tab: %w", err)
	}

	if err := c.WriteValues(spreadsheetID, published.Title, rosterValues(published)); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}

// rosterValues lays the roster out as a header row plus one row per date
func rosterValues(published *PublishedRoster) [][]interface{} {
	values := make([][]interface{}, 0, len(published.Rows)+1)
	values = append(values, rosterHeader)
	for _, row := range published.Rows {
		values = append(values, []interface{}{
			row.Date,
			row.Weekday,
			shiftNames(row.Day),
			shiftStaffing(row.Day),
			shiftNames(row.Night),
			shiftStaffing(row.Night),
		})
	}
	return values
}

func shiftNames(s PublishedShift) string {
	if !s.Present {
		return ""
	}
	return strings.Join(s.Names, ", ")
}

// shiftStaffing renders "assigned/required", flagging shortfalls
func shiftStaffing(s PublishedShift) string {
	if !s.Present {
		return ""
	}
	staffed := fmt.Sprintf("%d/%d", len(s.Names), s.Required)
	if len(s.Names) < s.Required {
		staffed += " SHORT"
	}
	return staffed
}
