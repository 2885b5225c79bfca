// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Code   int    `json:"code"`
	Detail any    `json:"detail,omitempty"`
	Msg    string `json:"msg"`
}

// WithRepJSON 只返回json数据
func WithRepJSON(c *fiber.Ctx, detail any) error {
	return c.JSON(Response{
		Code:   Success.Code,
		Detail: detail,
		Msg:    Success.Msg,
	})
}

// WithRep 返回预定义的响应
func WithRep(c *fiber.Ctx, rep *Response) error {
	return c.JSON(Response{
		Code: rep.Code,
		Msg:  rep.Msg,
	})
}

// WithRepDetail 返回预定义响应及 detail
func WithRepDetail(c *fiber.Ctx, rep *Response, detail any) error {
	return c.JSON(Response{
		Code:   rep.Code,
		Detail: detail,
		Msg:    rep.Msg,
	})
}
