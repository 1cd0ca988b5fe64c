/*

Package base provides base data structures and functions for fairml.

The base data structures and functions include:

* Random Generator

* CSV Parsing

* Numeric Helpers

*/
package base
