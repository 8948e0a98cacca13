// Copyright (c) WFX Authors.
// Licensed under the MIT License.

/*
Package types 提供 WFX 组件索引子系统的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 index、loader、config
等上层模块提供统一的类型契约。所有跨包共享的结构体与错误码均定义
于此，以避免循环依赖。

# 核心类型

  - Catalog             — 组件目录快照（metadata / components / modules / categories）
  - IndexMetadata       — 目录元数据（版本、生成时间、组件与模块总数）
  - ComponentDescriptor — 单个可发现组件（module.name 全局唯一键）
  - ModuleDescriptor    — 单个组件包（含 dynamic_imports 原始映射）
  - ComponentInfo       — 组件轻量元数据（描述、依赖、预留输入输出）
  - Error / ErrorCode   — 结构化错误体系，含 Module / Path 上下文标记

# 主要能力

  - 键管理：ComponentKey 生成 "module.name" 形式的全局唯一键
  - 有序访问：ComponentKeys / ModuleNames / CategoryNames 返回排序结果
  - 错误工具链：NewError / WithCause / WithModule / WithPath / IsErrorCode
*/
package types
