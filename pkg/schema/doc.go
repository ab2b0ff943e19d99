// Package schema decodes and structurally validates form schema documents.
//
// A form schema is a JSON object with a title, a description and an ordered
// list of fields:
//
//	{
//	  "formTitle": "Contact",
//	  "formDescription": "Tell us about your project",
//	  "fields": [
//	    {"id": "name", "type": "text", "label": "Name", "required": true},
//	    {"id": "email", "type": "email", "label": "Email",
//	     "validation": {"pattern": "^[^@]+@[^@]+$", "message": "Enter a valid email"}}
//	  ]
//	}
//
// Parse reports every structural problem it finds in a single pass through
// ErrorList; callers never receive a partially valid FormSchema. Field kinds
// outside the supported set are kept on the schema and surfaced as warnings
// unless WithStrictKinds is supplied.
package schema
