package restapi

import (
	"fmt"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	dispatch "github.com/sharedcode-labs/dispatchtable"
	"github.com/sharedcode-labs/dispatchtable/restapi/docs"
)

// Run builds the admin HTTP router over table, mounts the registered
// RestMethods plus the swagger endpoint, and blocks serving on addr until
// the process is signaled to stop.
//
// swag init --parseDependency regenerates docs/docs.go from the @Summary /
// @Router annotations on OpsAPI's methods.
func Run(table *dispatch.Table, addr string) error {
	ops := NewOpsAPI(table)

	if err := RegisterMethod(GET, "/ops", ops.GetOps); err != nil {
		return err
	}
	if err := RegisterMethod(GetOne, "/ops/:opcode", ops.GetOp); err != nil {
		return err
	}
	if err := RegisterMethod(Post, "/ops/:opcode/call", ops.CallOp); err != nil {
		return err
	}

	router := gin.Default()
	docs.SwaggerInfo.BasePath = "/api/v1"

	v1 := router.Group("/api/v1")
	{
		for _, rm := range RestMethods() {
			switch rm.Verb {
			case GET, GetOne:
				v1.GET(rm.Path, verifyHeaderToken(rm.Handler))
			case Delete:
				v1.DELETE(rm.Path, verifyHeaderToken(rm.Handler))
			case Post:
				v1.POST(rm.Path, verifyHeaderToken(rm.Handler))
			case Put:
				v1.PUT(rm.Path, verifyHeaderToken(rm.Handler))
			case Patch:
				v1.PATCH(rm.Path, verifyHeaderToken(rm.Handler))
			default:
				return fmt.Errorf("dispatch/restapi: HTTP verb %d not supported", rm.Verb)
			}
		}
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	return router.Run(addr)
}
