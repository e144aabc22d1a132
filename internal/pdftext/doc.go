// Package pdftext pulls video file names out of the text layer of a PDF.
//
// Text comes from a Backend chosen once at startup: the built-in parser
// (github.com/ledongthuc/pdf) or poppler's pdftotext binary. The Extractor
// walks pages in document order and collects every token that ends in a
// supported video extension, keeping duplicates and first-found order so the
// merge sequence mirrors the document.
package pdftext
