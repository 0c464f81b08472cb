package utc

import "testing"

func BenchmarkNow(b *testing.B) {
	for b.Loop() {
		Now()
	}
}

func BenchmarkFromCivil(b *testing.B) {
	for b.Loop() {
		if _, err := FromCivil(3000, 12, 31, 23, 59, 59.999999); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFromSeconds(b *testing.B) {
	for b.Loop() {
		if _, err := FromSeconds(253402300799.5); err != nil {
			b.Fatal(err)
		}
	}
}
