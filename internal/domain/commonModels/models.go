package commonModels

import "time"

// Document is the parsed form of one uploaded file. It only lives for the
// duration of a single pipeline run and is discarded after chunking.
type Document struct {
	Id                  string    `json:"source_doc_id"`
	Name                string    `json:"doc_name"`
	CollectionName      string    `json:"collection_name"`
	SourceDigest        string    `json:"source_digest"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
	Pages               []DocPage `json:"pages"`
}

// DocPage carries the raw text of one page plus its position in the file.
type DocPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

type DocChunk struct {
	Doc Document
	//ChunkId is derived from the chunk text alone (UUIDv5 over the content),
	//identical text always yields an identical id - it doubles as the
	//dedup key and the storage key
	ChunkId        string `json:"chunk_id"`
	Chunk          string `json:"content"`
	PageNum        int    `json:"page_num"`
	ChunkPageOrder int    `json:"chunk_order"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"
