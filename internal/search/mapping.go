package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for page documents. The CJK
// analyzer is the default so Japanese text tokenizes into searchable
// bigrams; it degrades gracefully for Latin-script content.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = cjk.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = cjk.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("book_title", titleField)

	// Page text is searchable but not stored whole; highlighting works
	// off term vectors and fragments.
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = cjk.AnalyzerName
	textField.Store = true
	textField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("text", textField)

	bookIDField := bleve.NewTextFieldMapping()
	bookIDField.Analyzer = keyword.Name
	bookIDField.Store = true
	docMapping.AddFieldMappingsAt("book_id", bookIDField)

	typeField := bleve.NewTextFieldMapping()
	typeField.Analyzer = keyword.Name
	typeField.Store = true
	docMapping.AddFieldMappingsAt("book_type", typeField)

	pageField := bleve.NewNumericFieldMapping()
	pageField.Store = true
	docMapping.AddFieldMappingsAt("page", pageField)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
