package config

import (
	"fmt"
	"reflect"

	"github.com/BurntSushi/toml"
)

// checkUndefinedFields returns an error if any toml-tagged field of v was not present in the decoded
// document. Decoding alone can't tell "absent" from "zero value", and for a benchmark config a silently
// defaulted field is usually a typo.
func checkUndefinedFields(meta toml.MetaData, v interface{}) error {
	for _, name := range tomlFieldNames(reflect.ValueOf(v)) {
		if !meta.IsDefined(name) {
			return fmt.Errorf("field %q not provided in config", name)
		}
	}
	return nil
}

// tomlFieldNames accepts a (pointer to) struct value and returns the names given in its fields' "toml"
// struct tags.
func tomlFieldNames(v reflect.Value) []string {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return tomlFieldNames(v.Elem())
	case reflect.Struct:
		var names []string
		for i := 0; i < v.NumField(); i++ {
			if !v.Field(i).CanSet() {
				continue
			}
			tag := v.Type().Field(i).Tag.Get("toml")
			if tag == "" || tag == "-" {
				continue
			}
			names = append(names, tag)
		}
		return names
	}
	return nil
}
