package builtins

import "github.com/dmnrun/feelengine/feel/value"

// registerContextFns installs the context built-ins (spec §4.6).
func registerContextFns(r *Registry) {
	r.add("get value", []string{"m", "key"}, biGetValue)
	r.add("get entries", []string{"m"}, biGetEntries)
	r.add("context", []string{"entries"}, biContext)
	r.add("context put", []string{"context", "key", "value"}, biContextPut)
	r.add("context merge", []string{"contexts"}, biContextMerge)
}

func biGetValue(args []value.Value) (value.Value, error) {
	c, ok := value.AsContext(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	key, ok := value.AsString(arg(args, 1))
	if !ok {
		return value.Nil, nil
	}
	return c.GetOrNull(key), nil
}

func biGetEntries(args []value.Value) (value.Value, error) {
	c, ok := value.AsContext(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	var out []value.Value
	c.Each(func(k string, v value.Value) {
		entry := value.NewContext()
		entry.Set("key", value.String(k))
		entry.Set("value", v)
		out = append(out, entry)
	})
	return value.NewList(out), nil
}

func biContext(args []value.Value) (value.Value, error) {
	list, ok := value.AsList(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	out := value.NewContext()
	for _, item := range list.Items {
		entry, ok := value.AsContext(item)
		if !ok {
			return value.Nil, nil
		}
		key, ok := entry.Get("key")
		if !ok {
			return value.Nil, nil
		}
		keyStr, ok := value.AsString(key)
		if !ok {
			return value.Nil, nil
		}
		val, ok := entry.Get("value")
		if !ok {
			val = value.Nil
		}
		out.Set(keyStr, val)
	}
	return out, nil
}

func biContextPut(args []value.Value) (value.Value, error) {
	c, ok := value.AsContext(arg(args, 0))
	if !ok {
		return value.Nil, nil
	}
	switch len(args) {
	case 2:
		additions, ok := value.AsContext(args[1])
		if !ok {
			return value.Nil, nil
		}
		return c.Merge(additions), nil
	case 3:
		key, ok := value.AsString(args[1])
		if !ok {
			return value.Nil, nil
		}
		out := value.NewContext()
		c.Each(func(k string, v value.Value) { out.Set(k, v) })
		out.Set(key, args[2])
		return out, nil
	default:
		return value.Nil, nil
	}
}

func biContextMerge(args []value.Value) (value.Value, error) {
	items := effectiveItems(args)
	out := value.NewContext()
	for _, item := range items {
		c, ok := value.AsContext(item)
		if !ok {
			return value.Nil, nil
		}
		out = out.Merge(c)
	}
	return out, nil
}
