package browser

import "encoding/json"

// BodyTextScript returns the visible text of the document body.
const BodyTextScript = `() => document.body ? document.body.innerText : ""`

// findScript returns a JS expression resolving sel to its first node or null.
func findScript(sel string) string {
	quoted, _ := json.Marshal(sel) //nolint: errchkjson
	if IsXPath(sel) {
		return `document.evaluate(` + string(quoted) +
			`, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`
	}

	return `document.querySelector(` + string(quoted) + `)`
}

// ExistsScript returns a function expression reporting whether sel matches a node.
func ExistsScript(sel string) string {
	return `() => ` + findScript(sel) + ` !== null`
}

// CenterScript returns a function expression resolving to the viewport center
// of the first node matching sel as {x, y}, or null when nothing matches.
func CenterScript(sel string) string {
	return `() => {
	const el = ` + findScript(sel) + `;
	if (!el || !el.getBoundingClientRect) { return null; }
	const r = el.getBoundingClientRect();
	return { x: r.left + r.width / 2, y: r.top + r.height / 2 };
}`
}

// CheckedScript returns a function expression reporting whether the first node
// matching sel is a ticked checkbox.
func CheckedScript(sel string) string {
	return `() => {
	const el = ` + findScript(sel) + `;
	return !!(el && el.checked);
}`
}
