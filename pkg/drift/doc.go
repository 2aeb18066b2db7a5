// Package drift implements the OpenAPI drift detector: it compares an
// observed (URL, method, response body) triple against a set of stored
// OpenAPI specifications and reports undocumented methods and
// schema-vs-body field drift. It never errors; a spec that fails to
// parse, or a body that isn't JSON, is simply skipped for that
// comparison.
package drift
