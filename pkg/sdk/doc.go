// Package docchat answers questions about a single document, in process.
//
// A document is extracted (PDF, TXT, DOCX, Markdown, XLSX), split into
// overlapping chunks and embedded into an in-memory index. Questions are
// embedded the same way, the closest chunks above a relevance floor are
// passed to a generator as context, and the answer comes back with the
// chunks it was grounded on.
//
//	client, _ := docchat.New(
//	    docchat.WithEmbedders(docEmbedder, queryEmbedder),
//	    docchat.WithGenerator(generator),
//	    docchat.WithRetrieval(3, 0.1),
//	)
//	status, _ := client.ProcessFile(ctx, "report.pdf", data, "")
//	answer, _ := client.Ask(ctx, "What was revenue in Q3?", 0)
//	fmt.Println(answer.Text, answer.Sources)
//
// Only one document is loaded at a time: loading another replaces it,
// and Reset drops it.
package docchat
