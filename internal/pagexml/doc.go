// Package pagexml reads PAGE-format layout annotations.
//
// A PAGE file describes the layout of one scanned page as a set of TextRegion
// elements, each with a polygon outline (Coords/@points) and free-text
// metadata in a "custom" attribute:
//
//	<TextRegion id="r1" custom="readingOrder {index:0;} structure {type:header;}">
//	    <Coords points="10,10 200,10 200,60 10,60"/>
//	</TextRegion>
//
// The package extracts the region type and reading-order position from the
// custom attribute, parses the polygon, and reconstructs the document's
// reading order either from an explicit ReadingOrder/OrderedGroup or from
// the order regions appear in the file.
//
// # Error Handling
//
// Only XML that cannot be parsed at all is an error (ErrMalformedDocument).
// Bad coordinate tokens and a missing namespace are logged as warnings and
// the affected unit is skipped or defaulted. Regions without usable geometry
// are kept; it is up to the renderer to skip them.
package pagexml
