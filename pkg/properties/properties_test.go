package properties

import (
	"reflect"
	"testing"
	"time"
)

func TestProperties_SetAndAccessors(t *testing.T) {
	props := New()
	now := time.Date(2019, 3, 8, 10, 20, 29, 0, time.UTC)

	props.Set(CoreNamespace, ProductName, "S2B_MSIL1C")
	props.Set(CoreNamespace, ValidityStart, now)
	props.Set("sentinel2", "relative_orbit", 65)
	props.Set("sentinel2", "cloud_cover", 12.5)

	if got, ok := props.String(CoreNamespace, ProductName); !ok || got != "S2B_MSIL1C" {
		t.Errorf("String() = %q, %v", got, ok)
	}
	if got, ok := props.Time(CoreNamespace, ValidityStart); !ok || !got.Equal(now) {
		t.Errorf("Time() = %v, %v", got, ok)
	}
	if got, ok := props.Int("sentinel2", "relative_orbit"); !ok || got != 65 {
		t.Errorf("Int() = %d, %v", got, ok)
	}
	if got, ok := props.Float("sentinel2", "cloud_cover"); !ok || got != 12.5 {
		t.Errorf("Float() = %f, %v", got, ok)
	}
}

func TestProperties_AccessorsMissing(t *testing.T) {
	props := New()
	props.Set(CoreNamespace, ProductName, "X")

	if _, ok := props.String(CoreNamespace, "nonexistent"); ok {
		t.Error("String() returned true for missing property")
	}
	if _, ok := props.Int("nonexistent", "nonexistent"); ok {
		t.Error("Int() returned true for missing namespace")
	}
	// Type mismatch is not a value.
	if _, ok := props.Int(CoreNamespace, ProductName); ok {
		t.Error("Int() returned true for string property")
	}
}

func TestProperties_NamespaceCreatesOnDemand(t *testing.T) {
	props := New()
	ns := props.Namespace("sentinel2")
	ns["mission"] = "S2A"

	if got, ok := props.String("sentinel2", "mission"); !ok || got != "S2A" {
		t.Errorf("String() = %q, %v after Namespace()", got, ok)
	}
}

func TestProperties_Merge(t *testing.T) {
	base := New()
	base.Set(CoreNamespace, ProductName, "old")
	base.Set(CoreNamespace, PhysicalName, "kept")

	overlay := New()
	overlay.Set(CoreNamespace, ProductName, "new")
	overlay.Set("sentinel2", "mission", "S2A")

	base.Merge(overlay)

	if got, _ := base.String(CoreNamespace, ProductName); got != "new" {
		t.Errorf("merged product_name = %q, want new", got)
	}
	if got, _ := base.String(CoreNamespace, PhysicalName); got != "kept" {
		t.Errorf("merged physical_name = %q, want kept", got)
	}
	if got, _ := base.String("sentinel2", "mission"); got != "S2A" {
		t.Errorf("merged mission = %q, want S2A", got)
	}
}

func TestProperties_NamespacesSorted(t *testing.T) {
	props := New()
	props.Set("sentinel2", "mission", "S2A")
	props.Set(CoreNamespace, ProductName, "X")
	props.Set("aux", "kind", "orbit")

	want := []string{"aux", CoreNamespace, "sentinel2"}
	if got := props.Namespaces(); !reflect.DeepEqual(got, want) {
		t.Errorf("Namespaces() = %v, want %v", got, want)
	}
}

func TestNeverExpires(t *testing.T) {
	if NeverExpires.Year() != 9999 {
		t.Errorf("NeverExpires year = %d, want 9999", NeverExpires.Year())
	}
	if NeverExpires.Location() != time.UTC {
		t.Error("NeverExpires is not UTC")
	}
}
