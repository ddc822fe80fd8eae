package anki

// Note is one flashcard note: an ID, its note type, and the field name to
// value mapping.
type Note struct {
	ID        int64
	ModelName string
	// FieldOrder lists field names in the note type's order.
	FieldOrder []string
	Fields     map[string]string
}

// HasField reports whether the note's model defines the named field.
func (n Note) HasField(name string) bool {
	_, ok := n.Fields[name]
	return ok
}

// noteInfo mirrors the notesInfo wire shape.
type noteInfo struct {
	NoteID    int64                     `json:"noteId"`
	ModelName string                    `json:"modelName"`
	Fields    map[string]noteFieldValue `json:"fields"`
}

type noteFieldValue struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

func (info noteInfo) toNote() Note {
	note := Note{
		ID:         info.NoteID,
		ModelName:  info.ModelName,
		FieldOrder: make([]string, len(info.Fields)),
		Fields:     make(map[string]string, len(info.Fields)),
	}
	for name, field := range info.Fields {
		if field.Order >= 0 && field.Order < len(note.FieldOrder) {
			note.FieldOrder[field.Order] = name
		}
		note.Fields[name] = field.Value
	}
	return note
}
