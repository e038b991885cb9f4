// SPDX-License-Identifier: MPL-2.0

// Package courseconfig reads course configuration documents and constructs
// course.Course values from them.
//
// A document looks like:
//
//	{
//	  "id": "O1_2024",
//	  "name": "O1",
//	  "modules": [
//	    {"name": "GoodStuff", "url": "https://example.com/GoodStuff.zip"},
//	    {"name": "Pong", "url": "https://example.com/Pong.zip", "dependencies": ["GoodStuff"]}
//	  ],
//	  "resources": {"ideSettings": "https://example.com/ide.zip"},
//	  "requiredPlugins": {"org.intellij.scala": "Scala"}
//	}
//
// Parsing only constructs; wiring the course into a graph and attaching host
// notifications is left to the caller.
package courseconfig
