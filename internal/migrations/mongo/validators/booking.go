package validators

import "go.mongodb.org/mongo-driver/bson"

// BookingValidator describes one date bucket: the calendar date as _id and
// the ordered list of entries booked on it.
var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"bookings",
		},
		"additionalProperties": false,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},

			"bookings": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":             "object",
					"required":             []string{"description", "assigned"},
					"additionalProperties": false,
					"properties": bson.M{
						"description": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 500,
						},
						"assigned": bson.M{
							"bsonType":  "string",
							"minLength": 1,
							"maxLength": 100,
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
