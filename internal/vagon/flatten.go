package vagon

// FlattenResource collapses a JSON:API resource ({id, type, attributes}) into
// a single level: id and type plus every attribute. Nested user/machine
// resources are flattened recursively and a softwares relationship is
// unwrapped from its data array.
func FlattenResource(resource Payload) Payload {
	if len(resource) == 0 {
		return Payload{}
	}

	out := Payload{
		"id":   resource["id"],
		"type": resource["type"],
	}

	attrs, ok := resource["attributes"].(map[string]interface{})
	if !ok {
		return out
	}
	for k, v := range attrs {
		out[k] = v
	}

	for _, key := range []string{"user", "machine"} {
		nested, ok := out[key].(map[string]interface{})
		if !ok {
			continue
		}
		if _, hasAttrs := nested["attributes"]; hasAttrs {
			out[key] = FlattenResource(Payload(nested))
		}
	}

	if softwares, ok := out["softwares"].(map[string]interface{}); ok {
		if data, ok := softwares["data"].([]interface{}); ok {
			out["softwares"] = FlattenList(data)
		} else {
			out["softwares"] = []Payload{}
		}
	}

	return out
}

// FlattenList flattens a JSON:API resource list, skipping non-object entries.
func FlattenList(items []interface{}) []Payload {
	out := make([]Payload, 0, len(items))
	for _, item := range items {
		resource, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, FlattenResource(Payload(resource)))
	}
	return out
}
