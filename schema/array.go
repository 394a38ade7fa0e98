package schema

import "encoding/json"

// Array creates a new array schema builder with the given items schema.
func Array(items Builder) *ArrayBuilder {
	node := &schemaNode{Type: "array"}
	if items != nil {
		node.Items = items.schema()
	}
	return &ArrayBuilder{node: node}
}

// ArrayBuilder constructs array type schemas.
type ArrayBuilder struct {
	node *schemaNode
}

// Desc sets the description.
func (b *ArrayBuilder) Desc(description string) *ArrayBuilder {
	b.node.Description = description
	return b
}

// Required marks this field as required when nested in an object.
func (b *ArrayBuilder) Required() *RequiredField {
	return &RequiredField{builder: b}
}

// Build serializes the schema to json.RawMessage.
func (b *ArrayBuilder) Build() (json.RawMessage, error) {
	if err := b.node.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(b.node)
}

// MustBuild is like Build but panics on error.
func (b *ArrayBuilder) MustBuild() json.RawMessage {
	data, err := b.Build()
	if err != nil {
		panic(err)
	}
	return data
}

func (b *ArrayBuilder) schema() *schemaNode {
	return b.node
}
