package middleware

import (
	"context"
	"net/http"
	"strings"

	"catalog-api/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthMiddleware verifies the JWT token in the Authorization header
func AuthMiddleware(secret string) mux.MiddlewareFunc {
	errorHandler := utils.NewErrorHandler()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errorHandler.HandleUnauthorized(w, "Authorization header is required")
				return
			}

			// Check if the Authorization header has the correct format
			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
				errorHandler.HandleUnauthorized(w, "Invalid authorization header format")
				return
			}

			// Parse and validate the JWT token
			token, err := jwt.Parse(bearerToken[1], func(token *jwt.Token) (interface{}, error) {
				// Validate the signing method
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})

			if err != nil {
				errorHandler.HandleUnauthorized(w, "Invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				errorHandler.HandleUnauthorized(w, "Invalid token")
				return
			}

			// Reject tokens whose subject is not a valid object id.
			rawID, _ := claims["user_id"].(string)
			if _, err := primitive.ObjectIDFromHex(rawID); err != nil {
				errorHandler.HandleUnauthorized(w, "Invalid user ID in token")
				return
			}

			// Add claims to request context
			ctx := context.WithValue(r.Context(), "claims", claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
