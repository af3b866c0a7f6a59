package mongo

// found returns v when ok, else nil, so lookups can report "absent" as
// (nil, nil).
func found[T any](v *T, ok bool, err error) (*T, error) {
	if err != nil || !ok {
		return nil, err
	}
	return v, nil
}
