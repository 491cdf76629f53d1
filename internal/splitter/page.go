package splitter

// Stylesheet is the default reading stylesheet injected into every emitted
// page. The 800px content width is relaxed to 100% when pages are served.
const Stylesheet = `body {
  font-family: "Hiragino Kaku Gothic ProN", "Hiragino Sans", "Noto Sans JP", "Yu Gothic", Meiryo, sans-serif;
  line-height: 1.8;
  max-width: 800px;
  margin: 0 auto;
  padding: 20px;
  background-color: #fafafa;
  color: #333;
}
pre, code {
  background-color: #f4f4f4;
  border-radius: 4px;
  padding: 2px 6px;
}
pre {
  padding: 12px;
  overflow-x: auto;
}
h1, h2, h3, h4, h5, h6 {
  color: #2c3e50;
}
a {
  color: #3498db;
}
img {
  max-width: 100%;
  height: auto;
}`

// BuildPage wraps one section body into a standalone HTML document carrying
// the charset and viewport declarations, the source document's head content,
// and the default stylesheet.
func BuildPage(head, body string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
` + head + `
<style>
` + Stylesheet + `
</style>
</head>
<body>
` + body + `
</body>
</html>`
}
