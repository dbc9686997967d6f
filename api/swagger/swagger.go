package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ktmuscrap API",
        "description": "Schedule scraper: parsed timetable snapshots and change notifications",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedule", "description": "Parsed schedule snapshots"},
        {"name": "Updates", "description": "Update cycle control"},
        {"name": "Subscribers", "description": "Change notification subscriptions"}
    ],
    "paths": {
        "/schedule/groups": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Last parsed group-oriented schedule",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No snapshot yet"}
                }
            }
        },
        "/schedule/teachers": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Last parsed teacher-oriented schedule",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No snapshot yet"}
                }
            }
        },
        "/schedule/updates/last": {
            "get": {
                "tags": ["Updates"],
                "summary": "Change-set produced by the last completed update cycle",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No update has completed yet"}
                }
            }
        },
        "/schedule/update": {
            "post": {
                "tags": ["Updates"],
                "summary": "Trigger an update cycle now",
                "parameters": [
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/TriggerRequest"}}
                ],
                "responses": {
                    "200": {"description": "Cycle finished, change-set returned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Malformed invoker key"},
                    "502": {"description": "Source fetch or parse failed"}
                }
            }
        },
        "/subscribers": {
            "post": {
                "tags": ["Subscribers"],
                "summary": "Register a subscriber",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subscribers/{key}/keepalive": {
            "post": {
                "tags": ["Subscribers"],
                "summary": "Refresh a subscriber's liveness timer",
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Unknown or expired subscriber"}
                }
            }
        },
        "/subscribers/{key}/poll": {
            "get": {
                "tags": ["Subscribers"],
                "summary": "Long-poll for the next change notification",
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "A notification arrived", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "204": {"description": "Poll window elapsed, retry"},
                    "404": {"description": "Unknown or expired subscriber"}
                }
            }
        },
        "/subscribers/{key}": {
            "delete": {
                "tags": ["Subscribers"],
                "summary": "Unsubscribe",
                "parameters": [
                    {"name": "key", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "Subject": {
            "type": "object",
            "properties": {
                "raw": {"type": "string"},
                "num": {"type": "integer"},
                "time": {"type": "string"},
                "name": {"type": "string"},
                "format": {"type": "string", "enum": ["fulltime", "remote", "unknown"]},
                "attenders": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Attender"}
                },
                "cabinet": {"$ref": "#/definitions/Cabinet"}
            }
        },
        "Attender": {
            "type": "object",
            "properties": {
                "raw": {"type": "string"},
                "kind": {"type": "string", "enum": ["teacher", "group", "vacancy"]},
                "name": {"type": "string"},
                "cabinet": {"$ref": "#/definitions/Cabinet"}
            }
        },
        "Cabinet": {
            "type": "object",
            "properties": {
                "primary": {"type": "string"},
                "opposite": {"type": "string"}
            }
        },
        "Day": {
            "type": "object",
            "properties": {
                "raw": {"type": "string"},
                "weekday": {"type": "string"},
                "date": {"type": "string"},
                "subjects": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Subject"}
                }
            }
        },
        "Formation": {
            "type": "object",
            "properties": {
                "raw": {"type": "string"},
                "name": {"type": "string"},
                "days": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Day"}
                }
            }
        },
        "Page": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["groups", "teachers"]},
                "scope": {"type": "string", "enum": ["weekly", "daily"]},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "formations": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Formation"}
                }
            }
        },
        "Notify": {
            "type": "object",
            "properties": {
                "nonce": {"type": "string"},
                "invoker": {"type": "string"},
                "groups": {"type": "object"},
                "teachers": {"type": "object"}
            }
        },
        "TriggerRequest": {
            "type": "object",
            "properties": {
                "invoker": {"type": "string", "description": "Subscriber key to skip when broadcasting the result"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
