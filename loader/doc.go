// Copyright (c) WFX Authors.
// Licensed under the MIT License.

/*
Package loader 提供组件索引的运行时加载门面。

# 概述

Loader 在进程启动时按三层策略决定目录的新鲜度：

 1. 生产模式（内置索引）：优先加载随安装包分发的静态索引文件
 2. 生产模式（缓存回退）：内置索引缺失时加载用户缓存副本
 3. 生产模式（现场重建）：两者皆缺失时现场扫描、校验并写入缓存

三层全部失败是子系统唯一的致命运行时错误（INDEX_EXHAUSTED）。

开发模式（WFX_DEV）始终现场重建，保证本地源码修改即时生效；
携带类别白名单时额外派生过滤副本（selective loading）。

# 并发契约

目录在首次成功加载后被视为进程级不可变单例；惰性初始化由互斥量
保证恰好一次，并发读取无需加锁。

# 查询操作

AvailableModules / AvailableCategories / ComponentsInModule /
ComponentsInCategory 均为只读访问器，首次使用时惰性触发加载，
加载失败时返回空结果而非错误。
*/
package loader
