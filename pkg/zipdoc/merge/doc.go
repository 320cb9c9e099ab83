// Package merge defines the merge engine capability consumed by zipdoc templates
// and ships a reference Velocity-style engine.
//
// An Engine receives a read-only Context, a source text stream and a
// destination stream:
//
//	engine := merge.NewXMLVelocityEngine("invoice")
//	var out bytes.Buffer
//	err := engine.Evaluate(merge.Context{"name": "World"}, strings.NewReader("Hello $name"), &out)
//	// out.String() == "Hello World"
//
// Engines that implement FilterRegistrar accept output filters keyed by the
// dynamic type of a substituted value. NewXMLVelocityEngine registers
// XMLStringFilter for strings so data cannot break the surrounding markup.
package merge
