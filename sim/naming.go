package sim

import (
	"strconv"
	"strings"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// NameMustBeValid panics if the name does not follow the naming convention.
// A name is a dot separated list of elements. Each element is a CamelCase
// word that starts with a capital letter and may end with square-bracket
// indices, for example "Device.Port[1]".
func NameMustBeValid(name string) {
	if name == "" {
		panic("name must not be empty")
	}

	for _, elem := range strings.Split(name, ".") {
		elemMustBeValid(elem)
	}
}

func elemMustBeValid(elem string) {
	base, indexPart, _ := strings.Cut(elem, "[")
	if base == "" {
		panic("name element must not be empty")
	}

	if strings.ContainsAny(base, "_\"'- ]") {
		panic("name element " + base + " contains an invalid character")
	}

	if base[0] < 'A' || base[0] > 'Z' {
		panic("name element " + base + " must start with a capital letter")
	}

	if indexPart == "" {
		return
	}

	indicesMustBeValid("[" + indexPart)
}

func indicesMustBeValid(s string) {
	for s != "" {
		if s[0] != '[' {
			panic("malformed index in name")
		}

		end := strings.IndexByte(s, ']')
		if end < 0 {
			panic("name bracket must match")
		}

		if _, err := strconv.Atoi(s[1:end]); err != nil {
			panic("name index must be integer")
		}

		s = s[end+1:]
	}
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and an
// index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
