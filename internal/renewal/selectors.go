package renewal

// Portal affordances of the listing and the renewal transaction.
const (
	// RenewLink is present on a domain page only while a free renewal is offered.
	RenewLink = "a[href*='renewdomain']"
	// OrderButton is the first button labelled "Order Now" or "Continue".
	OrderButton = "(//button[contains(normalize-space(.),'Order Now') or contains(normalize-space(.),'Continue')])[1]"
	// TermsCheckbox is optional; some orders have no terms to accept.
	TermsCheckbox = "input[name='accepttos']"
	// CheckoutButton submits the order.
	CheckoutButton = "button#checkout"
	// ListingMarker is rendered on the listing of a signed-in client, with or
	// without domain rows.
	ListingMarker = "tr[onclick*='window.location='], a[href*='logout']"
	// ConfirmationText appears on the page once the order went through.
	ConfirmationText = "Order Confirmation"
)

// listingScript snapshots the domain rows. Each row is clickable through an
// inline window.location handler; the Manage button carries the same target.
const listingScript = `() => {
	const rows = document.querySelectorAll("tr[onclick*='window.location=']");
	const text = (row, n) => {
		const cell = row.querySelector("td:nth-child(" + n + ")");
		return cell ? cell.innerText.trim() : "";
	};
	return Array.from(rows).map((row) => {
		let manageUrl = "";
		const manage = Array.from(row.querySelectorAll("a.btn.btn-sm"))
			.find((a) => a.innerText.includes("Manage"));
		if (manage && manage.href) {
			manageUrl = manage.href;
		} else {
			const m = (row.getAttribute("onclick") || "").match(/window\.location=['"]([^'"]+)['"]/);
			if (m) { manageUrl = new URL(m[1], location.href).href; }
		}
		return { name: text(row, 1), status: text(row, 3), manageUrl: manageUrl };
	});
}`
