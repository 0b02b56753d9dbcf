package vagon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenResource(t *testing.T) {
	resource := Payload{
		"id":   float64(12),
		"type": "organization_machine",
		"attributes": map[string]interface{}{
			"name":   "dev-box",
			"status": "running",
			"user": map[string]interface{}{
				"id":   float64(3),
				"type": "user",
				"attributes": map[string]interface{}{
					"email": "dev@example.com",
				},
			},
		},
	}

	flat := FlattenResource(resource)
	assert.Equal(t, float64(12), flat["id"])
	assert.Equal(t, "organization_machine", flat["type"])
	assert.Equal(t, "dev-box", flat["name"])
	assert.Equal(t, "running", flat["status"])

	user, ok := flat["user"].(Payload)
	assert.True(t, ok)
	assert.Equal(t, "dev@example.com", user["email"])
}

func TestFlattenResourceWithoutAttributes(t *testing.T) {
	flat := FlattenResource(Payload{"id": float64(1), "type": "seat"})
	assert.Equal(t, Payload{"id": float64(1), "type": "seat"}, flat)
}

func TestFlattenResourceEmpty(t *testing.T) {
	assert.Empty(t, FlattenResource(Payload{}))
	assert.Empty(t, FlattenResource(nil))
}

func TestFlattenResourceUnwrapsSoftwares(t *testing.T) {
	resource := Payload{
		"id":   float64(4),
		"type": "image",
		"attributes": map[string]interface{}{
			"softwares": map[string]interface{}{
				"data": []interface{}{
					map[string]interface{}{
						"id":         float64(7),
						"type":       "software",
						"attributes": map[string]interface{}{"name": "Blender"},
					},
				},
			},
		},
	}

	flat := FlattenResource(resource)
	softwares, ok := flat["softwares"].([]Payload)
	assert.True(t, ok)
	assert.Len(t, softwares, 1)
	assert.Equal(t, "Blender", softwares[0]["name"])
}

func TestFlattenResourceSoftwaresWithoutData(t *testing.T) {
	resource := Payload{
		"id":   float64(4),
		"type": "image",
		"attributes": map[string]interface{}{
			"softwares": map[string]interface{}{},
		},
	}

	flat := FlattenResource(resource)
	assert.Equal(t, []Payload{}, flat["softwares"])
}

func TestFlattenListSkipsNonObjects(t *testing.T) {
	items := []interface{}{
		map[string]interface{}{"id": float64(1), "type": "file", "attributes": map[string]interface{}{"name": "a.txt"}},
		"garbage",
		float64(42),
		map[string]interface{}{"id": float64(2), "type": "file", "attributes": map[string]interface{}{"name": "b.txt"}},
	}

	flat := FlattenList(items)
	assert.Len(t, flat, 2)
	assert.Equal(t, "a.txt", flat[0]["name"])
	assert.Equal(t, "b.txt", flat[1]["name"])
}
