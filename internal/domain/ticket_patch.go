package domain

import "time"

// TicketPatch is a merge-patch over a ticket. Nil fields are left untouched.
// An empty AssignedToID or KanbanColumnID clears that reference.
type TicketPatch struct {
	Status         *TicketStatus
	Priority       *TicketPriority
	AssignedToID   *string
	QueueID        *string
	KanbanColumnID *string
	CRMStage       *string
	CRMNotes       *string
	CRMValue       *float64
	CRMPriority    *int
}

// IsEmpty reports whether the patch carries no field at all.
func (p TicketPatch) IsEmpty() bool {
	return p.Status == nil && p.Priority == nil && p.AssignedToID == nil &&
		p.QueueID == nil && p.KanbanColumnID == nil && p.CRMStage == nil &&
		p.CRMNotes == nil && p.CRMValue == nil && p.CRMPriority == nil
}

// FieldChange records one field group modified by a patch.
type FieldChange struct {
	Type     TicketChangeType
	OldValue map[string]any
	NewValue map[string]any
}

// ApplyPatch merges p into t, stamps UpdatedAt with now and returns the
// field groups whose value actually changed. The column reference is
// overwritten, never accumulated.
func (t *Ticket) ApplyPatch(p TicketPatch, now time.Time) []FieldChange {
	var changes []FieldChange

	if p.Status != nil && *p.Status != t.Status {
		changes = append(changes, FieldChange{
			Type:     ChangeTypeStatus,
			OldValue: map[string]any{"status": t.Status},
			NewValue: map[string]any{"status": *p.Status},
		})
		t.Status = *p.Status
	}
	if p.Priority != nil && *p.Priority != t.Priority {
		changes = append(changes, FieldChange{
			Type:     ChangeTypePriority,
			OldValue: map[string]any{"priority": t.Priority},
			NewValue: map[string]any{"priority": *p.Priority},
		})
		t.Priority = *p.Priority
	}
	if next := optionalRef(p.AssignedToID); p.AssignedToID != nil && !sameString(t.AssignedToID, next) {
		changes = append(changes, FieldChange{
			Type:     ChangeTypeAssignee,
			OldValue: map[string]any{"assignedToId": derefString(t.AssignedToID)},
			NewValue: map[string]any{"assignedToId": derefString(next)},
		})
		t.AssignedToID = next
	}
	if p.QueueID != nil && *p.QueueID != t.QueueID {
		changes = append(changes, FieldChange{
			Type:     ChangeTypeQueue,
			OldValue: map[string]any{"queueId": t.QueueID},
			NewValue: map[string]any{"queueId": *p.QueueID},
		})
		t.QueueID = *p.QueueID
	}
	if next := optionalRef(p.KanbanColumnID); p.KanbanColumnID != nil && !sameString(t.KanbanColumnID, next) {
		changes = append(changes, FieldChange{
			Type:     ChangeTypeColumn,
			OldValue: map[string]any{"kanbanColumnId": derefString(t.KanbanColumnID)},
			NewValue: map[string]any{"kanbanColumnId": derefString(next)},
		})
		t.KanbanColumnID = next
	}

	crmOld := map[string]any{}
	crmNew := map[string]any{}
	if p.CRMStage != nil && !sameString(t.CRMStage, p.CRMStage) {
		crmOld["crmStage"] = derefString(t.CRMStage)
		crmNew["crmStage"] = *p.CRMStage
		t.CRMStage = cloneString(p.CRMStage)
	}
	if p.CRMNotes != nil && !sameString(t.CRMNotes, p.CRMNotes) {
		crmOld["crmNotes"] = derefString(t.CRMNotes)
		crmNew["crmNotes"] = *p.CRMNotes
		t.CRMNotes = cloneString(p.CRMNotes)
	}
	if p.CRMValue != nil && (t.CRMValue == nil || *t.CRMValue != *p.CRMValue) {
		if t.CRMValue != nil {
			crmOld["crmValue"] = *t.CRMValue
		} else {
			crmOld["crmValue"] = nil
		}
		crmNew["crmValue"] = *p.CRMValue
		value := *p.CRMValue
		t.CRMValue = &value
	}
	if p.CRMPriority != nil && *p.CRMPriority != t.CRMPriority {
		crmOld["crmPriority"] = t.CRMPriority
		crmNew["crmPriority"] = *p.CRMPriority
		t.CRMPriority = *p.CRMPriority
	}
	if len(crmNew) > 0 {
		changes = append(changes, FieldChange{Type: ChangeTypeCRM, OldValue: crmOld, NewValue: crmNew})
	}

	t.UpdatedAt = now
	return changes
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// optionalRef clones a reference id, mapping "" to nil.
func optionalRef(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return cloneString(s)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
