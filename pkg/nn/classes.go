package nn

// UA-DETRAC vehicle classes, in the order the detector was fine-tuned with
const (
	ClassOthers = 0
	ClassCar    = 1
	ClassVan    = 2
	ClassBus    = 3
)

// VehicleClasses maps class id (the index) to class name
var VehicleClasses = []string{
	"others",
	"car",
	"van",
	"bus",
}

// ClassName returns the name of a class id, or false if the id is not in the class table
func ClassName(id int) (string, bool) {
	if id < 0 || id >= len(VehicleClasses) {
		return "", false
	}
	return VehicleClasses[id], true
}

// ClassNames returns a fresh id -> name map, suitable for a dataset manifest
func ClassNames() map[int]string {
	m := make(map[int]string, len(VehicleClasses))
	for i, name := range VehicleClasses {
		m[i] = name
	}
	return m
}
