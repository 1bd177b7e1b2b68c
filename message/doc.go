// Package message provides templated string properties.
//
// A template is text with {name} placeholders filled from the accessor
// arguments each time the property is read. Literal braces are written as
// {{ and }}. Choice parameters select one of several texts:
//
//	{enabled|on|off}                 bool argument, true picks the first
//	{count|0#no files|1#one file|2#many files}
//	                                 integer argument, the greatest limit
//	                                 not above the value wins
//
// Templates are parsed once when the configuration is bound, so malformed
// templates are reported with every other configuration error.
package message
