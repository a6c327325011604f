package main

import (
	"testing"
	"time"

	"github.com/stcorp/muninn-sentinel2/pkg/properties"
)

func TestRenderProperties(t *testing.T) {
	props := properties.New()
	props.Set(properties.CoreNamespace, properties.ProductName, "S2B_MSIL1C_x")
	props.Set(properties.CoreNamespace, properties.ValidityStart,
		time.Date(2019, 3, 8, 10, 20, 29, 24000000, time.UTC))
	props.Set(properties.CoreNamespace, properties.Footprint, properties.Polygon{
		{{Lon: 10, Lat: 44}, {Lon: 11, Lat: 44}, {Lon: 11, Lat: 45}},
	})
	props.Set("sentinel2", "relative_orbit", 65)

	rendered := renderProperties(props)

	core := rendered["core"]
	if core["product_name"] != "S2B_MSIL1C_x" {
		t.Errorf("product_name = %v", core["product_name"])
	}
	if core["validity_start"] != "2019-03-08T10:20:29.024Z" {
		t.Errorf("validity_start = %v, want RFC 3339 string", core["validity_start"])
	}
	if core["footprint"] != "POLYGON ((10 44, 11 44, 11 45, 10 44))" {
		t.Errorf("footprint = %v, want WKT string", core["footprint"])
	}
	if rendered["sentinel2"]["relative_orbit"] != 65 {
		t.Errorf("relative_orbit = %v, want untouched int", rendered["sentinel2"]["relative_orbit"])
	}
}
