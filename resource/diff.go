package resource

import "sort"

// Managed restricts current to the keys of desired. Keys the server does not
// report map to nil.
func Managed(current AttributeSet, desired AttributeSet) AttributeSet {
	managed := make(AttributeSet, len(desired))
	for key := range desired {
		managed[key] = current[key]
	}
	return managed
}

// Delta returns the desired attributes whose canonical form differs from
// current. Attributes present only on the server never appear.
func Delta(current AttributeSet, desired AttributeSet) (AttributeSet, error) {
	delta := AttributeSet{}
	for key, want := range desired {
		equal, err := Equal(current[key], want)
		if err != nil {
			return nil, err
		}
		if !equal {
			delta[key] = want
		}
	}
	return delta, nil
}

func Equal(left Value, right Value) (bool, error) {
	leftText, err := Canonical(left)
	if err != nil {
		return false, err
	}
	rightText, err := Canonical(right)
	if err != nil {
		return false, err
	}
	return leftText == rightText, nil
}

// DeltaDiff reports the delta keys as they are on the server and as desired.
func DeltaDiff(current AttributeSet, delta AttributeSet) *Diff {
	before := make(AttributeSet, len(delta))
	for key := range delta {
		before[key] = current[key]
	}
	after := make(AttributeSet, len(delta))
	for key, value := range delta {
		after[key] = value
	}
	return &Diff{Before: before, After: after}
}

func SortedKeys(attributes AttributeSet) []string {
	keys := attributes.Keys()
	sort.Strings(keys)
	return keys
}
