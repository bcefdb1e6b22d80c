package domain

import (
	"fmt"
	"strings"
)

// Field identifies one editable column of a TaskRecord
type Field int

const (
	FieldProjectID Field = iota
	FieldProjectName
	FieldTaskName
	FieldDescription
	FieldStatus
	FieldMember
	FieldDepartment
	FieldProgress
	FieldStartDate
	FieldDueDate
	FieldCompletedDate
	FieldRisks
	FieldNextSteps
	FieldUpdatedDate
)

const rowKeyWire = "PID"

type fieldInfo struct {
	name  string
	wire  string
	title string
}

var fields = []fieldInfo{
	FieldProjectID:     {"project-id", "專案ID", "Project ID"},
	FieldProjectName:   {"project-name", "專案名稱", "Project"},
	FieldTaskName:      {"task", "任務名稱", "Task"},
	FieldDescription:   {"description", "任務描述", "Description"},
	FieldStatus:        {"status", "任務狀態", "Status"},
	FieldMember:        {"member", "成員姓名", "Member"},
	FieldDepartment:    {"department", "部門", "Department"},
	FieldProgress:      {"progress", "進度百分比", "Progress"},
	FieldStartDate:     {"start", "開始日期", "Start"},
	FieldDueDate:       {"due", "預計完成日期", "Due"},
	FieldCompletedDate: {"completed", "實際完成日期", "Completed"},
	FieldRisks:         {"risks", "風險與問題", "Risks"},
	FieldNextSteps:     {"next-steps", "下一步計劃", "Next steps"},
	FieldUpdatedDate:   {"updated", "更新日期", "Updated"},
}

var fieldByWireKey = func() map[string]Field {
	m := make(map[string]Field, len(fields))
	for i, f := range fields {
		m[f.wire] = Field(i)
	}
	return m
}()

// Fields returns every field in column order
func Fields() []Field {
	out := make([]Field, len(fields))
	for i := range fields {
		out[i] = Field(i)
	}
	return out
}

func (f Field) valid() bool {
	return f >= 0 && int(f) < len(fields)
}

// String returns the CLI name of the field (e.g. "due")
func (f Field) String() string {
	if !f.valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fields[f].name
}

// Title returns a human-readable column header
func (f Field) Title() string {
	if !f.valid() {
		return f.String()
	}
	return fields[f].title
}

// WireKey returns the backend column name
func (f Field) WireKey() string {
	if !f.valid() {
		return ""
	}
	return fields[f].wire
}

// IsDate reports whether the field holds a calendar date
func (f Field) IsDate() bool {
	switch f {
	case FieldStartDate, FieldDueDate, FieldCompletedDate, FieldUpdatedDate:
		return true
	}
	return false
}

// ParseField resolves a field from its CLI name, title or wire key
func ParseField(name string) (Field, error) {
	n := strings.TrimSpace(name)
	for i, f := range fields {
		if strings.EqualFold(n, f.name) || strings.EqualFold(n, f.title) || n == f.wire {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field: %q", name)
}

// Get returns the text value of a field
func (r TaskRecord) Get(f Field) string {
	switch f {
	case FieldProjectID:
		return r.ProjectID
	case FieldProjectName:
		return r.ProjectName
	case FieldTaskName:
		return r.TaskName
	case FieldDescription:
		return r.Description
	case FieldStatus:
		return string(r.Status)
	case FieldMember:
		return r.Member
	case FieldDepartment:
		return r.Department
	case FieldProgress:
		return string(r.Progress)
	case FieldStartDate:
		return r.StartDate
	case FieldDueDate:
		return r.DueDate
	case FieldCompletedDate:
		return r.CompletedDate
	case FieldRisks:
		return r.Risks
	case FieldNextSteps:
		return r.NextSteps
	case FieldUpdatedDate:
		return r.UpdatedDate
	}
	return ""
}

// Set replaces exactly one field. No validation is performed.
func (r *TaskRecord) Set(f Field, value string) {
	switch f {
	case FieldProjectID:
		r.ProjectID = value
	case FieldProjectName:
		r.ProjectName = value
	case FieldTaskName:
		r.TaskName = value
	case FieldDescription:
		r.Description = value
	case FieldStatus:
		r.Status = Status(value)
	case FieldMember:
		r.Member = value
	case FieldDepartment:
		r.Department = value
	case FieldProgress:
		r.Progress = Progress(value)
	case FieldStartDate:
		r.StartDate = value
	case FieldDueDate:
		r.DueDate = value
	case FieldCompletedDate:
		r.CompletedDate = value
	case FieldRisks:
		r.Risks = value
	case FieldNextSteps:
		r.NextSteps = value
	case FieldUpdatedDate:
		r.UpdatedDate = value
	}
}
