// Package lineio opens corpus files and reads them line by line.
//
// Lines are returned with their original terminator so that filters can
// copy kept lines byte-for-byte. A leading UTF-8 byte order mark is removed
// from every input, since many corpus exporters write one and it would
// otherwise become part of the first token.
package lineio
