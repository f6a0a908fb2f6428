package demoserver

// PageDefinition is one demo page served for capture exercises.
type PageDefinition struct {
	Path        string
	Title       string
	ContentType string
	HTML        string
}

// GetAllPages returns the demo pages. Each one exercises a different part
// of the capture path: instant render, script-delayed render (virtual-time
// budget) and a mobile-width layout.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		{
			Path:  "/",
			Title: "Instant page",
			HTML: `<!DOCTYPE html>
<html>
<head><title>Instant page</title></head>
<body>
  <h1>Instant page</h1>
  <p>Static content, renders immediately.</p>
  <a href="/slow">slow page</a> <a href="/mobile">mobile page</a>
</body>
</html>`,
		},
		{
			Path:  "/slow",
			Title: "Slow page",
			HTML: `<!DOCTYPE html>
<html>
<head><title>Slow page</title></head>
<body>
  <h1>Slow page</h1>
  <div id="late">waiting for script...</div>
  <script>
    // Content that only appears if the renderer grants enough script time.
    setTimeout(function () {
      document.getElementById('late').textContent = 'script finished';
      document.title = 'Slow page (settled)';
    }, 1500);
  </script>
</body>
</html>`,
		},
		{
			Path:  "/mobile",
			Title: "Mobile layout",
			HTML: `<!DOCTYPE html>
<html>
<head>
  <title>Mobile layout</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>
    body { margin: 0; font-family: sans-serif; }
    .banner { display: none; background: #222; color: #fff; padding: 1em; }
    @media (max-width: 480px) { .banner { display: block; } }
  </style>
</head>
<body>
  <div class="banner">narrow viewport detected</div>
  <h1>Mobile layout</h1>
  <p>The banner above only renders at mobile widths (e.g. 390x844).</p>
</body>
</html>`,
		},
	}
}
