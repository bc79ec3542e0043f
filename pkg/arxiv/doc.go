/*
Package arxiv is a client for the arXiv query API (Atom over HTTP).

It covers free-form search, identifier and version lookup, recent papers
per category, author search, exact-phrase search, a multi-field advanced
query builder, and trending-category aggregation. Simple searches are
capped at 50 results, advanced searches at 200. An optional Redis-backed
response cache can be attached; cache failures fall through to upstream.
*/
package arxiv
