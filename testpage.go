package tbrowse

// TestPageSource is the source name that resolves to TestPage.
const TestPageSource = "test"

// TestPage is a built-in document exercising every rendering rule.
const TestPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>tbrowse test page</title>
<style>body { color: red; }</style>
<script>console.log("never shown")</script></head>
<body>
<header><h1>Terminal browser test page</h1></header>
<main>
<p>This is <strong>bold</strong>, <em>italic</em>, <mark>highlight</mark>,
<u>underline</u>, <del>struck</del> and <code>inline code</code> text.</p>
<hr>
<pre><code>func main() {
	fmt.Println("Hello, world!")
}
</code></pre>
<h2>Lists</h2>
<ul><li>First</li><li>Second<ul><li>Nested</li></ul></li></ul>
<ol><li>One</li><li>Two</li><li>Three</li></ol>
<h2>Table</h2>
<table>
<thead><tr><th>#</th><th>Name</th><th>Age</th></tr></thead>
<tbody><tr><td>1</td><td>Aleks</td><td>25</td></tr>
<tr><td>2</td><td>Bob</td><td>31</td></tr></tbody>
</table>
<blockquote>Quoted text that is long enough to wrap when the terminal is narrow.</blockquote>
<dl><dt>Term</dt><dd>Definition of the term.</dd></dl>
<figure><img src="diagram.png" alt="A diagram"><figcaption>Figure 1</figcaption></figure>
<details><summary>More details</summary><p>Hidden until expanded.</p></details>
<form action="/send">
<input name="email" placeholder="you@example.com">
<textarea name="message"></textarea>
<button value="Send">
</form>
<p>Link: <a href="https://example.com">Example</a></p>
</main>
<footer>Footer text</footer>
</body>
</html>
`
