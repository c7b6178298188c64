package lists

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tasklight/tasklight/internal/models"
)

const maxTextLength = 180

// NormalizeTask coerces one loosely-shaped task value (as decoded from JSON)
// into the canonical Task. It reports false when the task must be dropped:
// not an object, id missing or not a non-empty string, or text empty after
// trimming. now is the timestamp (Unix ms) substituted for absent or
// non-numeric createdAt/updatedAt.
func NormalizeTask(raw interface{}, now int64) (models.Task, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return models.Task{}, false
	}

	id, ok := m["id"].(string)
	if !ok || id == "" {
		return models.Task{}, false
	}

	text := truncate(strings.TrimSpace(coerceString(m["text"])), maxTextLength)
	if text == "" {
		return models.Task{}, false
	}

	task := models.Task{
		ID:        id,
		Text:      text,
		Completed: truthy(m["completed"]),
		Priority:  models.PriorityMedium,
		CreatedAt: numberOr(m["createdAt"], now),
		UpdatedAt: numberOr(m["updatedAt"], now),
	}

	switch p := m["priority"]; p {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		task.Priority = p.(string)
	}

	if due := m["dueDate"]; truthy(due) {
		s := coerceString(due)
		task.DueDate = &s
	}

	return task, true
}

// NormalizeLists coerces a loosely-shaped {private, public} value into a
// canonical ListSet. A total function: anything that is not a list of valid
// tasks collapses to the empty list, and invalid tasks are dropped.
func NormalizeLists(raw interface{}, now int64) models.ListSet {
	doc, _ := raw.(map[string]interface{})
	return models.ListSet{
		Private: normalizeSequence(doc["private"], now),
		Public:  normalizeSequence(doc["public"], now),
	}
}

func normalizeSequence(raw interface{}, now int64) []models.Task {
	items, ok := raw.([]interface{})
	if !ok {
		return []models.Task{}
	}

	tasks := make([]models.Task, 0, len(items))
	for _, item := range items {
		if task, ok := NormalizeTask(item, now); ok {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func coerceString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// truthy mirrors loose boolean coercion: nil, false, zero, and the empty
// string are false; everything else is true.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	default:
		return true
	}
}

func numberOr(v interface{}, fallback int64) int64 {
	if f, ok := v.(float64); ok {
		return int64(f)
	}
	return fallback
}
