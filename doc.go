// File: lixenwraith/bundleconf/doc.go

// Package bundleconf resolves the layered project description of a desktop
// application packaging tool into one flat configuration per app.
//
// A project file declares global settings, one or more apps, and optional
// per-platform and per-output-format overrides:
//
//	[tool.briefcase]
//	project_name = "Hello"
//	version = "1.0"
//	bundle = "com.example"
//
//	[tool.briefcase.app.hello]
//	description = "Hello app"
//	sources = ["src/hello"]
//
//	[tool.briefcase.app.hello.linux]
//	requires = ["toga-gtk"]
//
//	[tool.briefcase.app.hello.linux.appimage]
//	manylinux = "manylinux2014"
//
// Resolving for a (platform, output format) pair merges, in increasing
// precedence: global settings, app settings, the matching platform section,
// and the matching output format section inside it. The "requires" and
// "sources" lists accumulate across layers; every other key is replaced by
// the highest layer that sets it. Sections for other platforms and formats
// are dropped.
//
// Quick Start:
//
//	res, err := bundleconf.NewBuilder().
//	    WithFile("pyproject.toml").
//	    WithPlatform("linux").
//	    WithOutputFormat("appimage").
//	    WithValidator(bundleconf.ValidateApps).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app, err := res.AppConfig("hello")
//
// Resolution is a pure transform: inputs are copied, results never alias the
// caller's data, and a Resolver may be used from multiple goroutines.
package bundleconf
